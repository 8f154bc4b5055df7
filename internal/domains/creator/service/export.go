package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"creator-dashboard/internal/domains/creator/model"
)

var exportHeaders = []string{
	"Username",
	"Full Name",
	"Followers",
	"Following",
	"Posts",
	"Engagement Rate",
	"Category",
	"Bio",
	"Profile URL",
	"External URL",
	"Is Verified",
	"Is Business",
	"Is Private",
	"Bio Hashtags",
	"Bio Mentions",
	"Scraped At",
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Exporter renders creator lists into downloadable files.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders creators in the requested format: csv, tsv, json or
// xlsx.
func (e *Exporter) Export(format string, creators []model.Creator) (*ExportFile, error) {
	date := time.Now().Format("2006-01-02")

	switch format {
	case "csv":
		return &ExportFile{
			Content:     e.renderCSV(creators),
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("creators-export-%s.csv", date),
		}, nil
	case "tsv":
		return &ExportFile{
			Content:     e.renderTSV(creators),
			ContentType: "text/tab-separated-values",
			Filename:    fmt.Sprintf("creators-export-%s.tsv", date),
		}, nil
	case "json":
		content, err := json.MarshalIndent(creators, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json export failed: %w", err)
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("creators-export-%s.json", date),
		}, nil
	case "xlsx":
		content, err := e.renderXLSX(creators)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("creators-export-%s.xlsx", date),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func exportRow(c model.Creator) []string {
	// Commas and newlines in bios wreck single-line-per-record
	// consumers, so they are flattened to spaces in every format.
	bio := strings.NewReplacer("\n", " ", "\r", " ", ",", " ").Replace(c.Bio)

	return []string{
		c.Username,
		c.FullName,
		strconv.FormatInt(c.FollowerCount, 10),
		strconv.FormatInt(c.FollowingCount, 10),
		strconv.FormatInt(c.MediaCount, 10),
		fmt.Sprintf("%.2f%%", c.EngagementRate),
		c.Category,
		bio,
		c.ProfileURL,
		c.ExternalURL,
		yesNo(c.IsVerified),
		yesNo(c.IsBusiness),
		yesNo(c.IsPrivate),
		c.BioHashtags,
		c.BioMentions,
		c.ScrapedAt.Format(time.RFC3339),
	}
}

// renderCSV quotes every cell and doubles embedded quotes, RFC4180
// style.
func (e *Exporter) renderCSV(creators []model.Creator) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(exportHeaders, ","))

	for _, c := range creators {
		buf.WriteByte('\n')
		cells := exportRow(c)
		for i, cell := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			buf.WriteByte('"')
		}
	}

	return buf.Bytes()
}

// renderTSV strips tabs and newlines from cells instead of quoting,
// which is what spreadsheet apps expect from .tsv pastes.
func (e *Exporter) renderTSV(creators []model.Creator) []byte {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

	var buf bytes.Buffer
	buf.WriteString(strings.Join(exportHeaders, "\t"))

	for _, c := range creators {
		buf.WriteByte('\n')
		cells := exportRow(c)
		for i, cell := range cells {
			if i > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(clean.Replace(cell))
		}
	}

	return buf.Bytes()
}

func (e *Exporter) renderXLSX(creators []model.Creator) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Creators"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx export failed: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("xlsx export failed: %w", err)
		}
	}

	for rowIdx, c := range creators {
		for col, value := range exportRow(c) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("xlsx export failed: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx export failed: %w", err)
	}

	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
