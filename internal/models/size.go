package models

import (
	"fmt"
	"strconv"
	"strings"
)

var units = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseSize converts a display label such as "1.5 MB" or "1,024 KB" into
// bytes. Unknown or placeholder labels ("--", "") count as zero.
func ParseSize(label string) int64 {
	fields := strings.Fields(strings.ReplaceAll(label, ",", ""))
	if len(fields) != 2 {
		return 0
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || n < 0 {
		return 0
	}
	mult, ok := units[strings.ToUpper(fields[1])]
	if !ok {
		return 0
	}
	return int64(n * float64(mult))
}

// FormatSize renders n bytes the way upload labels are written: megabytes
// with one decimal below a gigabyte, gigabytes with two above.
func FormatSize(n int64) string {
	mb := float64(n) / (1 << 20)
	if mb < 1024 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.2f GB", mb/1024)
}

// Usage is the storage consumed by a user's records, in bytes.
type Usage struct {
	Total  int64
	ByKind map[Kind]int64
	Trash  int64
}

// UsageOf sums the sizes of records. Trashed records count towards Total and
// Trash but not towards ByKind; folders never count. Links are reported
// together with documents.
func UsageOf(records []FileRecord) Usage {
	u := Usage{ByKind: make(map[Kind]int64)}
	for _, r := range records {
		if r.IsFolder() {
			continue
		}
		n := ParseSize(r.Size)
		u.Total += n
		switch {
		case r.IsTrashed():
			u.Trash += n
		case r.Kind == KindImage, r.Kind == KindVideo:
			u.ByKind[r.Kind] += n
		default:
			u.ByKind[KindDocument] += n
		}
	}
	return u
}
