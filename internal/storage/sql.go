package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      name,
                      start_time)
VALUES (?, ?)`

	updateSessionSQL = `
UPDATE sessions
SET name         = ?,
    end_time     = ?,
    notes        = ?,
    duration_sec = ?,
    max_altitude = ?,
    distance     = ?,
    max_g        = ?,
    min_g        = ?,
    max_speed    = ?,
    avg_speed    = ?
WHERE
    id = ?`

	selectSessionColumns = `
    id,
    name,
    start_time,
    end_time,
    notes,
    duration_sec,
    max_altitude,
    distance,
    max_g,
    min_g,
    max_speed,
    avg_speed`

	selectSessionSQL = `
SELECT ` + selectSessionColumns + `
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT ` + selectSessionColumns + `
FROM sessions
ORDER BY start_time`

	insertSamplesSQL = `
INSERT INTO samples (session_id,
                     timestamp,
                     latitude,
                     longitude,
                     altitude,
                     speed,
                     accel_x,
                     accel_y,
                     accel_z,
                     g_force,
                     heading,
                     pressure)
VALUES `

	selectSamplesSQL = `
SELECT timestamp,
       latitude,
       longitude,
       altitude,
       speed,
       accel_x,
       accel_y,
       accel_z,
       g_force,
       heading,
       pressure
FROM samples
WHERE
    session_id = ?
ORDER BY timestamp`

	deleteSamplesSQL = `DELETE FROM samples WHERE session_id = ?`
	deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`
)

//go:embed schema.sql
var schemaSQL string
