// Package logging wraps logrus with the fields pdrplan attaches to every
// line: a run_id correlating one invocation's log output and stats block,
// and a phase number once search begins. Replaces the teacher's bare
// config.Config.Logger *log.Logger field.
package logging

import (
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// exit is a var so tests can stub it out; production code never overrides it.
var exit = os.Exit

// New returns a logrus.Entry on a text-formatted logger writing to stderr,
// with run_id already attached as an entry field.
func New(runID uuid.UUID) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l.WithField("run_id", runID.String())
}

// WithPhase returns a derived entry annotated with the current phase
// number, for the per-phase counters of spec §4.6.
func WithPhase(base *logrus.Entry, phase int) *logrus.Entry {
	return base.WithField("phase", phase)
}

// InvariantViolation is the internal panic type for unrecoverable logic
// breaches (spec §7): raised deep in a library package, caught once at the
// cmd/pdrplan boundary.
type InvariantViolation struct {
	Where string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return e.Where + ": " + e.Msg
}

// Fatal reports an InvariantViolation at fatal severity and exits with
// status 2, per spec §7. Only ever called from the recover() at the top of
// cmd/pdrplan; logrus's own Fatal* methods always exit(1), so the level is
// logged manually and exit(2) is called explicitly instead.
func Fatal(log *logrus.Entry, err *InvariantViolation) {
	log.WithField("where", err.Where).Log(logrus.FatalLevel, err.Msg)
	exit(2)
}
