package heartbeat

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/google/uuid"
)

//Store keeps last heartbeat time of workers
type Store interface {
	Touch(ctx context.Context, id string) error
	// Ages returns time since the last heartbeat by worker name
	Ages(ctx context.Context) (map[string]time.Duration, error)
}

//Beater touches heartbeat of one worker
type Beater struct {
	store Store
	id    string
}

//NewBeater creates beater for worker id
func NewBeater(store Store, id string) *Beater {
	return &Beater{store: store, id: id}
}

//Beat touches heartbeat, failures are only logged
func (b *Beater) Beat() {
	if err := b.store.Touch(context.Background(), b.id); err != nil {
		cmdapp.Log.Warnf("Can't touch heartbeat %s: %v", b.id, err)
	}
}

//Check returns false if there are no workers or any heartbeat is older than timeout
func Check(ctx context.Context, store Store, timeout time.Duration) (bool, string) {
	ages, err := store.Ages(ctx)
	if err != nil {
		return false, fmt.Sprintf("UNHEALTHY: %v", err)
	}
	return Evaluate(ages, timeout)
}

//Evaluate checks heartbeat ages
func Evaluate(ages map[string]time.Duration, timeout time.Duration) (bool, string) {
	if len(ages) == 0 {
		return false, "UNHEALTHY: No workers found."
	}
	var stale []string
	for n, a := range ages {
		if a > timeout {
			stale = append(stale, n)
		}
	}
	if len(stale) > 0 {
		sort.Strings(stale)
		return false, fmt.Sprintf("UNHEALTHY: Stale workers %v", stale)
	}
	return true, fmt.Sprintf("HEALTHY: %d active workers", len(ages))
}

//ProcessID returns host name with a random suffix, unique for each process start
func ProcessID() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		h = "worker"
	}
	return h + "-" + uuid.New().String()[:8]
}

func workerName(id string) string {
	return "worker_" + id
}
