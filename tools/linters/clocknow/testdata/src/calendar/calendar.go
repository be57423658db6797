package calendar

import "time"

type pager struct {
	now func() time.Time
}

func newPager() *pager {
	return &pager{now: time.Now}
}

func (p *pager) today() time.Time {
	return p.now()
}

func bad() time.Time {
	return time.Now() // want `time.Now\(\) called directly; read the current time from the injected clock`
}

func alsoBad() string {
	return time.Now().UTC().Format(time.DateOnly) // want `time.Now\(\) called directly`
}

func elapsed(start time.Time) time.Duration {
	return time.Since(start)
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:clocknow
}

func nolintList() {
	_ = time.Now() //nolint:gosec,clocknow
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want `time.Now\(\) called directly`
}
