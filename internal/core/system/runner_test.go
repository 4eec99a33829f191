package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	phase Phase
	name  string
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(time.Duration) {
	*r.log = append(*r.log, r.name)
}

func TestRunner_PhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{PhaseCleanup, "cleanup", &log})
	r.Register(recorder{PhaseUpdate, "lifetime", &log})
	r.Register(recorder{PhasePreUpdate, "events", &log})
	r.Register(recorder{PhaseUpdate, "ai", &log})

	r.Tick(100 * time.Millisecond)

	assert.Equal(t, []string{"events", "lifetime", "ai", "cleanup"}, log)
	assert.Equal(t, uint64(1), r.Ticks())
}
