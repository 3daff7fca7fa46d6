package types

// Unix timestamp at millisecond resolution
type UnixMilli int64
