package observer

import (
	"github.com/sirupsen/logrus"

	"github.com/LukeAtkinz/matchcore/internal/applog"
)

// LogObserver writes a structured log line per event at debug level; the
// line appears only when the ambient logger's level admits debug output.
type LogObserver struct {
	entry *logrus.Entry
}

// NewLogObserver builds a LogObserver. log may be nil, in which case it
// uses the lazily-initialized default logger.
func NewLogObserver(log *applog.Logger) *LogObserver {
	if log == nil {
		log = applog.Get()
	}
	return &LogObserver{entry: log.WithComponent("observer")}
}

// RecordEvent implements observer.Observer.
func (o *LogObserver) RecordEvent(e Event) {
	fields := logrus.Fields{
		"queue_action": string(e.QueueAction),
		"heap_action":  string(e.HeapAction),
		"pool_size":    len(e.Pool),
		"heap_size":    len(e.Heap),
	}
	if e.TargetPlayerRank != nil {
		fields["target_player_rank"] = *e.TargetPlayerRank
	}
	if e.Window != nil {
		fields["window_start"] = e.Window[0]
		fields["window_end"] = e.Window[1]
	}
	if len(e.TeamXRanks) > 0 {
		fields["team_x_ranks"] = e.TeamXRanks
	}
	if len(e.TeamYRanks) > 0 {
		fields["team_y_ranks"] = e.TeamYRanks
	}
	if e.TargetGameHeapIndex != nil {
		fields["target_game_heap_index"] = *e.TargetGameHeapIndex
	}

	o.entry.WithFields(fields).Debug("matchmaking step")
}
