package constants

import "time"

const (
	AppName            = "deedlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/deedlog/deedlog.db"
	Version            = "v0.2.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "deedlog-"
	BackupFileSuffix = ".db"

	// Writer lock constants
	LockfileName       = "deedlog.lock"
	LockMaxRetries     = 3
	LockRetryDelay     = 100 * time.Millisecond
	LockExecutableName = "deedlog"

	// RecentLimit is how many entries the home screen lists under "Recent W's"
	RecentLimit = 3
)
