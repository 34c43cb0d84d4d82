package constants

import "time"

const (
	AppName            = "hearth"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/hearth"
	DefaultConfigPath  = "~/.config/hearth/config.toml"
	DefaultDBPath      = "~/.config/hearth/hearth.db"
	Version            = "v0.3.0"

	// EnvDBConnection overrides the database setting with a PostgreSQL connection string.
	EnvDBConnection = "HEARTH_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "hearth-"
	BackupFileSuffix = ".db"

	// Recurrence constants
	DefaultOccurrenceCap = 30
	// WeeklyScanWindowDays is the minimum number of days scanned for weekday-filtered recurrence.
	WeeklyScanWindowDays = 120

	// Filter windows
	FilterAll   = "all"
	FilterToday = "today"
	FilterWeek  = "week"

	DefaultFilter = FilterToday

	// Realtime constants
	RealtimeChannel      = "hearth_changes"
	DefaultWatchInterval = 5 * time.Second
	ListenerMinReconnect = 10 * time.Second
	ListenerMaxReconnect = time.Minute

	// InviteCodeLength is the number of characters in a family invite code
	InviteCodeLength = 6
)

// DefaultCategories are seeded for every new family, in display order.
var DefaultCategories = []struct {
	Name  string
	Icon  string
	Color string
}{
	{"Home", "🏠", "#667EEA"},
	{"Work", "💼", "#F093FB"},
	{"School", "📚", "#4ECDC4"},
	{"Health", "💊", "#FF6B6B"},
	{"Family", "👨‍👩‍👧‍👦", "#FFE66D"},
	{"Leisure", "🎮", "#95E1D3"},
}
