package input

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

// requiredColumns must be present (after header normalization) in every
// input file.
var requiredColumns = []string{"InvoiceNumber", "Carrier", "Paycode", "LIPost", "Group"}

// Loader discovers, ingests and archives rejection CSV files.
type Loader struct {
	dir      string
	override string
	repo     rejection.Repository
}

func NewLoader(dir, fileNameOverride string, repo rejection.Repository) *Loader {
	return &Loader{dir: dir, override: fileNameOverride, repo: repo}
}

// Discover returns the CSV files to process: files matching today's date in
// either accepted filename format, or matching the override pattern when
// one is configured.
func (l *Loader) Discover(now time.Time) ([]string, error) {
	var patterns []string
	if l.override != "" {
		patterns = []string{fmt.Sprintf("*%s*.csv", l.override)}
	} else {
		patterns = []string{
			fmt.Sprintf("*%s*.csv", now.Format("01_02_2006")),
			fmt.Sprintf("*%s*.csv", now.Format("01_02_06")),
		}
	}

	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(l.dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	logger.Log.Debugf("Files to process: %v", files)
	return files, nil
}

// Load parses one CSV file, validates its rows and persists the surviving
// records to the store (insert-if-absent, so re-running a file is safe).
func (l *Loader) Load(ctx context.Context, path string) error {
	recs, err := ParseFile(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		logger.Log.Warnf("No valid rejections in %s.", path)
		return nil
	}
	if err := l.repo.AddBatch(ctx, recs); err != nil {
		return fmt.Errorf("could not persist rejections from %s: %w", path, err)
	}
	logger.Log.Infof("Ingested %d rejections from %s.", len(recs), filepath.Base(path))
	return nil
}

// Archive moves a fully-processed file into the ARCHIVE subdirectory of the
// input directory. Already-archived files are skipped with a log line.
func (l *Loader) Archive(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Log.Infof("File %s already archived, skipping.", filepath.Base(path))
		return nil
	}
	archiveDir := filepath.Join(l.dir, "ARCHIVE")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return fmt.Errorf("could not create archive directory: %w", err)
	}
	dest := filepath.Join(archiveDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("could not archive %s: %w", path, err)
	}
	logger.Log.Infof("Archived %s to %s.", filepath.Base(path), archiveDir)
	return nil
}

// ParseFile reads a rejection CSV into validated records. Rows failing
// validation are dropped with a log line; a missing required column fails
// the whole file.
func ParseFile(path string) ([]*rejection.Rejection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := normalizeHeaders(rows[0])
	if missing := missingColumns(headers); len(missing) > 0 {
		return nil, fmt.Errorf("%s missing required columns: %v", path, missing)
	}

	fileName := filepath.Base(path)
	var recs []*rejection.Rejection
	for _, raw := range rows[1:] {
		row := rowMap(headers, raw)
		rec, ok := buildRecord(row, fileName)
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

// normalizeHeaders strips all spaces from column names ("Rej Code 1" and
// "RejCode1" both map to RejCode1) and drops placeholder columns.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.ReplaceAll(h, " ", "")
		if strings.HasPrefix(strings.ToLower(h), "column") {
			h = ""
		}
		headers[i] = h
	}
	return headers
}

func missingColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func rowMap(headers []string, raw []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" || i >= len(raw) {
			continue
		}
		row[h] = strings.TrimSpace(raw[i])
	}
	return row
}

// buildRecord validates one CSV row and converts it into a Rejection.
// Returns ok=false for rows that must be dropped.
func buildRecord(row map[string]string, fileName string) (*rejection.Rejection, bool) {
	invoice, err := strconv.ParseInt(row["InvoiceNumber"], 10, 64)
	if err != nil || !rejection.ValidInvoiceNumber(invoice) {
		logger.Log.Errorf("Invalid invoice number %q, removing row.", row["InvoiceNumber"])
		return nil, false
	}

	group, err := strconv.Atoi(row["Group"])
	if err != nil {
		logger.Log.Errorf("Invalid group %q for invoice %d, removing row.", row["Group"], invoice)
		return nil, false
	}

	carrier := strings.ToUpper(row["Carrier"])
	if carrier != "" && !rejection.CarrierAllowed(carrier) {
		logger.Log.Errorf("Invalid carrier %q for invoice %d, removing row.", carrier, invoice)
		return nil, false
	}

	lineItemPost := parseBool(row["LIPost"])
	paycode := row["Paycode"]

	// Paycode 901 adjustments must be posted in bulk.
	if paycode == "901" && lineItemPost {
		logger.Log.Warnf("Paycode 901 with LIPost set for invoice %d; forcing bulk posting.", invoice)
		lineItemPost = false
	}

	if lineItemPost && carrier == "" {
		logger.Log.Errorf("LIPost set but carrier empty for invoice %d, removing row.", invoice)
		return nil, false
	}

	rec := &rejection.Rejection{
		InvoiceNumber: invoice,
		FileName:      fileName,
		Carrier:       carrier,
		LineItemPost:  lineItemPost,
		Group:         group,
	}
	if paycode != "" {
		rec.Paycode = sql.NullString{String: paycode, Valid: true}
	}
	for i := 0; i < 4; i++ {
		rec.RejCodes[i] = row[fmt.Sprintf("RejCode%d", i+1)]
		rec.Remarks[i] = row[fmt.Sprintf("Remark%d", i+1)]
	}
	return rec, true
}

func parseBool(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRUE", "T", "YES", "Y", "1":
		return true
	default:
		return false
	}
}
