package repository

import "errors"

// ErrReminderNotFound is returned by writes that target a reminder which no longer exists
var ErrReminderNotFound = errors.New("reminder not found")

// ErrItemNotFound is returned when an owner backfill targets an item which no longer exists
var ErrItemNotFound = errors.New("item not found")
