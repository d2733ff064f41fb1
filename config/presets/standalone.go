package presets

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spacemeshos/profilesync/config"
)

func init() {
	register("standalone", standalone())
}

// standalone runs a node against local profile servers with short intervals.
func standalone() config.Config {
	conf := config.DefaultConfig()
	conf.DataDir = filepath.Join(os.TempDir(), "profilesync")
	conf.ShutdownTimeout = 5 * time.Second

	conf.Fetch.Scheme = "http"
	conf.Fetch.Timeout = 2 * time.Second

	conf.Store.MaxAge = 10 * time.Minute
	conf.Store.MinResubmissionInterval = time.Minute
	conf.Sync.MaxAge = conf.Store.MaxAge

	conf.Trust.BucketInterval = time.Minute
	conf.Trust.Window = 60

	conf.Server.Listen = "127.0.0.1:7513"
	conf.Scheduler.Cleanup = "* * * * *"
	conf.Scheduler.Flush = "* * * * *"

	conf.Metrics.Enabled = true
	conf.LOGGING.AppLoggerLevel = "debug"
	conf.LOGGING.SyncLoggerLevel = "debug"
	return conf
}
