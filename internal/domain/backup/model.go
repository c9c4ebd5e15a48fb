package backup

import (
	"encoding/json"
	"time"
)

// CurrentVersion is the backup document format version this build
// writes and the only version it accepts on import.
const CurrentVersion = 1

// Tables lists every backed-up table in restore order: parents before
// children so inserts satisfy foreign keys.
var Tables = []string{
	"settings",
	"users",
	"brands",
	"models",
	"variants",
	"customers",
	"suppliers",
	"shifts",
	"sales_invoices",
	"sales_items",
	"purchase_invoices",
	"purchase_items",
	"return_invoices",
	"return_items",
	"stock_moves",
	"payments",
	"sys_sequences",
}

// Document is the self-describing backup payload. Rows are kept as raw
// JSON so a restore round-trips them verbatim.
type Document struct {
	Version int                          `json:"version"`
	Date    time.Time                    `json:"date"`
	Data    map[string][]json.RawMessage `json:"data"`
}
