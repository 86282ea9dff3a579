package tracker

import "time"

// Timer - отменяемый отложенный вызов
type Timer interface {
	Stop() bool
}

// Clock - источник времени и таймеров трекера
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock - настоящие часы
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
