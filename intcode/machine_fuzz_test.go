package intcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzMachine(f *testing.F) {
	for _, code := range []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 99, 1101, 21102, 203, 1105, 2206, 301, 11101, 42, -1} {
		f.Add(code, int64(0), int64(1), int64(2), int64(7), true)
		f.Add(code, int64(-1), int64(-1), int64(-1), int64(0), false)
		f.Add(code, int64(1<<40), int64(5), int64(1<<50), int64(-3), true)
	}

	f.Fuzz(func(t *testing.T, code int64, a int64, b int64, c int64, input int64, hasInput bool) {
		assert := assert.New(t)

		m := NewMachine([]int64{code, a, b, c, 99})
		m.RelativeBase = 3
		if hasInput {
			m.PushInput(input)
		}

		for range 16 {
			pre_ip := m.Ip
			pre_ticks := m.Ticks
			pre_state := m.State()
			pre_cells := m.Memory.Slice(0, 5)
			pre_input := m.PendingInput()

			state, err := m.Step()

			code_str := fmt.Sprintf("%v %v %v %v input:%v/%v\n%v", code, a, b, c, input, hasInput, m.String())

			if err != nil {
				switch {
				case errors.Is(err, ErrOpcodeDecode):
				case errors.Is(err, ErrModeInvalid):
				case errors.Is(err, ErrAddressInvalid):
				default:
					assert.NoError(err, code_str)
				}
				// A failed step changes nothing.
				assert.Equal(pre_state, state, code_str)
				assert.Equal(pre_ip, m.Ip, code_str)
				assert.Equal(pre_ticks, m.Ticks, code_str)
				assert.Equal(pre_cells, m.Memory.Slice(0, 5), code_str)
				assert.Equal(pre_input, m.PendingInput(), code_str)
				return
			}

			switch state {
			case STATE_WAITING:
				assert.Equal(pre_ip, m.Ip, code_str)
				assert.Equal(pre_ticks, m.Ticks, code_str)
				assert.Equal(0, m.PendingInput(), code_str)
				return
			case STATE_TERMINATED:
				assert.Equal(state, m.State(), code_str)
				return
			case STATE_RUNNING:
				assert.Equal(pre_ticks+1, m.Ticks, code_str)
			default:
				assert.Fail("unexpected state", code_str)
				return
			}
		}
	})
}
