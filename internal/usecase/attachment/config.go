package attachment

const (
	MaxFileSize = 20 << 20

	DefaultRecordsLimit = 50
	MaxRecordsLimit     = 500
)
