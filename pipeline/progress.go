package pipeline

import (
	"sync"
	"time"

	"github.com/deanrtaylor1/gosentiment/report"
)

// Progress tracks a run for concurrent readers. It is an Observer.
type Progress struct {
	ProgressLock sync.Mutex
	phase        Phase
	startedAt    time.Time
	updatedAt    time.Time
	report       *report.Report
	err          error
}

func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) OnPhase(phase Phase) {
	p.ProgressLock.Lock()
	defer p.ProgressLock.Unlock()

	now := time.Now()
	if phase == Partitioning {
		p.startedAt = now
		p.report = nil
		p.err = nil
	}
	p.phase = phase
	p.updatedAt = now
}

// Finish records the outcome of the run being tracked.
func (p *Progress) Finish(rep *report.Report, err error) {
	p.ProgressLock.Lock()
	defer p.ProgressLock.Unlock()

	p.report = rep
	p.err = err
	p.updatedAt = time.Now()
	if err != nil {
		p.phase = Failed
	} else if rep != nil {
		p.phase = Done
	}
}

// Status is a point-in-time copy of a Progress.
type Status struct {
	Phase      Phase
	IsComplete bool
	StartedAt  time.Time
	UpdatedAt  time.Time
	Err        error
}

func (p *Progress) Status() Status {
	p.ProgressLock.Lock()
	defer p.ProgressLock.Unlock()

	return Status{
		Phase:      p.phase,
		IsComplete: p.phase == Done,
		StartedAt:  p.startedAt,
		UpdatedAt:  p.updatedAt,
		Err:        p.err,
	}
}

// Report returns the finished report, or nil while a run is in progress.
func (p *Progress) Report() *report.Report {
	p.ProgressLock.Lock()
	defer p.ProgressLock.Unlock()
	return p.report
}
