// Package output renders annotation runs to files: the annotated record
// export, the pathway membership export and the audit log.
package output

import (
	"os"
	"os/user"
	"time"

	"github.com/google/uuid"
)

// TimestampFormat stamps output file names. No colons, so the names stay
// portable across filesystems.
const TimestampFormat = "2006-01-02_15-04-05"

// RunInfo identifies one annotation run. Every file the run writes carries
// the same start instant, so outputs and audit log pair up by name.
type RunInfo struct {
	ID    string
	Start time.Time
	User  string
}

// NewRunInfo captures a fresh run identity with the current UTC time and
// process user.
func NewRunInfo() RunInfo {
	username := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	} else if v := os.Getenv("USER"); v != "" {
		username = v
	}
	return RunInfo{
		ID:    uuid.NewString(),
		Start: time.Now().UTC(),
		User:  username,
	}
}

// Timestamp renders the run start for embedding in file names.
func (r RunInfo) Timestamp() string {
	return r.Start.Format(TimestampFormat)
}
