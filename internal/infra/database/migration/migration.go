package migration

import _ "embed"

// Schema creates the users and todos tables. Statements are idempotent.
//
//go:embed schema.sql
var Schema string
