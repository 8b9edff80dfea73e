// Package repository provides the durable store for users, missions,
// reports, tools and refresh tokens on top of database/sql. Every
// state transition is a single conditional UPDATE keyed on the row id
// plus a predicate on the current status; callers learn via the
// boolean return whether their predicate held. Point lookups return
// sql.ErrNoRows for missing rows, which higher layers translate into
// not-found responses.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registering with a username that
// is already taken.
var ErrUsernameExists = errors.New("username already exists")
