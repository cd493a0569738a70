package app

import (
	"errors"
	"flag"
)

const (
	CommandList   Command = "list"
	CommandShow   Command = "show"
	CommandDelete Command = "delete"
)

type Command string

type Config struct {
	DBPath    string
	Command   Command
	SessionID int64
}

func NewConfig() *Config {
	return &Config{
		Command: CommandList,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var show, remove int64
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.Int64Var(&show, "s", 0, "Show details and statistics for a session ID")
	flag.Int64Var(&remove, "delete", 0, "Delete a session ID and its samples")
	flag.Parse()

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if show != 0 && remove != 0 {
		err = errors.New("-s and -delete are mutually exclusive")
	} else if show < 0 || remove < 0 {
		err = errors.New("session id must be positive")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	switch {
	case show != 0:
		c.Command = CommandShow
		c.SessionID = show
	case remove != 0:
		c.Command = CommandDelete
		c.SessionID = remove
	}

	return c, nil
}
