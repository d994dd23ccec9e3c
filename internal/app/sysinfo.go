package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// sysinfoCmd samples CPU and memory usage for the status bar on a slow
// cadence. Sampling runs off the UI goroutine; only the message touches
// model state.
func sysinfoCmd() tea.Cmd {
	return tea.Tick(sysinfoInterval, func(time.Time) tea.Msg {
		msg := SysinfoMsg{}
		if percs, err := cpu.Percent(0, false); err == nil && len(percs) > 0 {
			msg.CPUPercent = percs[0]
		}
		if vm, err := mem.VirtualMemory(); err == nil {
			msg.MemPercent = vm.UsedPercent
		}
		return msg
	})
}
