package widget

import (
	"errors"
	"testing"

	"github.com/distatus/battery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batteryGetter(b *battery.Battery, err error) func(int) (*battery.Battery, error) {
	return func(int) (*battery.Battery, error) { return b, err }
}

func TestHostBattery(t *testing.T) {
	charging := &battery.Battery{Current: 30, Full: 60, State: battery.State{Raw: battery.Charging}}

	for _, tc := range []struct {
		name     string
		bat      *battery.Battery
		err      error
		want     BatteryStat
		wantFail bool
	}{
		{name: "complete", bat: charging, want: BatteryStat{Percent: 50, Charging: true}},
		{
			name: "missing charge rate",
			bat:  charging,
			err:  battery.ErrPartial{ChargeRate: errors.New("power_now: no such file")},
			want: BatteryStat{Percent: 50, Charging: true},
		},
		{
			name: "missing state",
			bat:  charging,
			err:  battery.ErrPartial{State: errors.New("status unreadable")},
			want: BatteryStat{Percent: 50},
		},
		{
			name:     "missing current",
			bat:      charging,
			err:      battery.ErrPartial{Current: errors.New("energy_now unreadable")},
			wantFail: true,
		},
		{name: "fatal", err: battery.ErrFatal{Err: battery.ErrNotFound}, wantFail: true},
		{name: "zero capacity", bat: &battery.Battery{}, wantFail: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := hostBattery{get: batteryGetter(tc.bat, tc.err)}.Battery()
			if tc.wantFail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPartialBatteryRenders(t *testing.T) {
	src := hostBattery{get: batteryGetter(
		&battery.Battery{Current: 60, Full: 60},
		battery.ErrPartial{Voltage: errors.New("voltage_now unreadable")},
	)}
	b := NewBattery(src)
	b.Update()
	assert.Equal(t, 9, litCount(b.Matrix()[:9]))
}
