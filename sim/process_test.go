package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessState_Constants_HaveExpectedStringValues(t *testing.T) {
	assert.Equal(t, ProcessState("new"), StateNew)
	assert.Equal(t, ProcessState("ready"), StateReady)
	assert.Equal(t, ProcessState("running"), StateRunning)
	assert.Equal(t, ProcessState("blocked"), StateBlocked)
	assert.Equal(t, ProcessState("terminated"), StateTerminated)
}

func TestNewProcess_CursorsAtFirstStage(t *testing.T) {
	// GIVEN bursts [5, 3] and io [2]
	// WHEN NewProcess is called
	p := NewProcess(7, 4, []int64{5, 3}, []int64{2})

	// THEN the process is positioned at its first CPU and I/O stage
	assert.Equal(t, ProcessID(7), p.ID)
	assert.Equal(t, int64(4), p.ArrivalTime)
	assert.Equal(t, 0, p.CurrentBurst)
	assert.Equal(t, 0, p.CurrentIO)
	assert.Equal(t, int64(5), p.BurstRemain)
	assert.Equal(t, int64(2), p.IORemain)
	assert.Equal(t, StateNew, p.State)
	assert.False(t, p.IsLastCPU())
	assert.False(t, p.IsLastIO())
	assert.True(t, p.HasIO())
}

func TestNewProcess_NoIO(t *testing.T) {
	p := NewProcess(1, 0, []int64{4}, nil)

	assert.True(t, p.IsLastCPU())
	assert.True(t, p.IsLastIO())
	assert.False(t, p.HasIO())
	assert.Equal(t, int64(0), p.IORemain)
}

func TestProcess_NextBurst_LoadsNextLength(t *testing.T) {
	// GIVEN a process with three CPU bursts
	p := NewProcess(1, 0, []int64{5, 3, 8}, []int64{2, 4})

	// WHEN advancing through the bursts
	p.NextBurst()
	assert.Equal(t, 1, p.CurrentBurst)
	assert.Equal(t, int64(3), p.BurstRemain)
	assert.False(t, p.IsLastCPU())

	p.NextBurst()
	assert.Equal(t, int64(8), p.BurstRemain, "the final burst keeps its full length")
	assert.True(t, p.IsLastCPU())

	// THEN moving past the last burst leaves nothing remaining
	p.NextBurst()
	assert.Equal(t, int64(0), p.BurstRemain)
}

func TestProcess_NextIO_ClampsAtSentinel(t *testing.T) {
	// GIVEN a process with two I/O stages
	p := NewProcess(1, 0, []int64{1, 1, 1}, []int64{2, 4})

	// WHEN advancing the I/O cursor
	p.NextIO()
	assert.Equal(t, 1, p.CurrentIO)
	assert.Equal(t, int64(4), p.IORemain)

	p.NextIO()
	assert.True(t, p.IsLastIO())
	assert.Equal(t, int64(0), p.IORemain)

	// THEN further calls do not move past the sentinel
	p.NextIO()
	assert.Equal(t, 2, p.CurrentIO)
	assert.False(t, p.HasIO())
}

func TestProcess_Totals(t *testing.T) {
	p := NewProcess(1, 0, []int64{5, 3, 2}, []int64{2, 7})
	assert.Equal(t, int64(10), p.TotalCPU())
	assert.Equal(t, int64(9), p.TotalIO())
}

func TestProcess_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       *Process
		wantErr bool
	}{
		{"single burst", NewProcess(1, 0, []int64{3}, nil), false},
		{"bursts with io", NewProcess(1, 2, []int64{3, 4}, []int64{0}), false},
		{"no bursts", NewProcess(1, 0, nil, nil), true},
		{"io count mismatch", NewProcess(1, 0, []int64{3, 4}, nil), true},
		{"too many io", NewProcess(1, 0, []int64{3}, []int64{1}), true},
		{"zero burst", NewProcess(1, 0, []int64{0}, nil), true},
		{"negative io", NewProcess(1, 0, []int64{1, 1}, []int64{-1}), true},
		{"negative arrival", NewProcess(1, -1, []int64{1}, nil), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidWorkload))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIDGenerator_Sequential(t *testing.T) {
	gen := NewIDGenerator(5)
	assert.Equal(t, ProcessID(5), gen.Next())
	assert.Equal(t, ProcessID(6), gen.Next())
	assert.Equal(t, ProcessID(7), gen.Next())
}

func TestProcessTable_AddGetOrder(t *testing.T) {
	// GIVEN a table with three processes added out of ID order
	table := NewProcessTable()
	for _, id := range []ProcessID{3, 1, 2} {
		require.NoError(t, table.Add(NewProcess(id, 0, []int64{1}, nil)))
	}

	// THEN lookups work and iteration follows insertion order
	p, ok := table.Get(1)
	require.True(t, ok)
	assert.Equal(t, ProcessID(1), p.ID)
	_, ok = table.Get(9)
	assert.False(t, ok)

	var ids []ProcessID
	for _, p := range table.Processes() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []ProcessID{3, 1, 2}, ids)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "[3 1 2]", table.String())
}

func TestProcessTable_DuplicateRejected(t *testing.T) {
	table := NewProcessTable()
	require.NoError(t, table.Add(NewProcess(1, 0, []int64{1}, nil)))

	err := table.Add(NewProcess(1, 5, []int64{2}, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWorkload)
}
