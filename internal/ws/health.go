package ws

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// HealthStatus is the /api/health response body.
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Goroutines    int     `json:"goroutines"`
	MemoryRSSMB   float64 `json:"memoryRssMb,omitempty"`
	CPUPercent    float64 `json:"cpuPercent,omitempty"`
	OnlineUsers   int     `json:"onlineUsers"`
	OpenRooms     int     `json:"openRooms"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		OnlineUsers:   s.hub.OnlineCount(),
		OpenRooms:     s.rooms.Count(),
	}

	// Process metrics are best effort; the endpoint stays healthy even
	// if they cannot be read.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			status.MemoryRSSMB = float64(mem.RSS) / (1024 * 1024)
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			status.CPUPercent = cpu
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
