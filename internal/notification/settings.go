package notification

import "time"

// Settings tunes the reminder dispatcher. Debounce must stay at least as long
// as Interval or a reminder is pushed on every tick.
type Settings struct {
	Interval     time.Duration // time between timer-driven cycles
	StartupDelay time.Duration // wait before the first cycle after Start
	Lookahead    time.Duration // how far ahead of now a due date is considered due
	Debounce     time.Duration // minimum gap between two pushes for one reminder
	SiblingLimit int           // reminders inspected when recovering an owner from siblings
}

// DefaultSettings returns the production defaults
func DefaultSettings() Settings {
	return Settings{
		Interval:     5 * time.Minute,
		StartupDelay: 10 * time.Second,
		Lookahead:    time.Hour,
		Debounce:     5 * time.Minute,
		SiblingLimit: 10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Interval <= 0 {
		s.Interval = d.Interval
	}
	if s.StartupDelay < 0 {
		s.StartupDelay = d.StartupDelay
	}
	if s.Lookahead <= 0 {
		s.Lookahead = d.Lookahead
	}
	if s.Debounce <= 0 {
		s.Debounce = d.Debounce
	}
	if s.SiblingLimit <= 0 {
		s.SiblingLimit = d.SiblingLimit
	}
	return s
}
