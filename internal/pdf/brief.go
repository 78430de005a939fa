package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders project documents. Interface so handlers can be tested
// without producing real PDFs.
type Generator interface {
	GenerateBrief(w io.Writer, data BriefData) error
}

type BriefGenerator struct {
	siteTitle string
	fontName  string
}

// BriefData is everything the one-page project brief shows.
type BriefData struct {
	ProjectID   int64
	ProjectName string
	ClientName  string
	OwnerName   string
	Stage       string
	Status      string
	Industry    string
	Summary     string
	DueDate     *time.Time
	CreatedAt   time.Time
	OpenTasks   int
	DoneTasks   int
	GeneratedAt time.Time
}

func NewBriefGenerator(siteTitle string) *BriefGenerator {
	// Core Helvetica covers the latin content the portal produces, so no
	// TTF shipping required.
	return &BriefGenerator{siteTitle: siteTitle, fontName: "Helvetica"}
}

// GenerateBrief writes the project brief straight to w, usually the HTTP
// response.
func (g *BriefGenerator) GenerateBrief(w io.Writer, data BriefData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Project Brief: %s", data.ProjectName), false)
	pdf.SetAuthor(g.siteTitle, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "PROJECT BRIEF", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("No. ELF-%06d  of  %s", data.ProjectID, data.GeneratedAt.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	g.sectionTitle(pdf, "Engagement")
	g.kvLine(pdf, "Project", data.ProjectName)
	g.kvLine(pdf, "Client", data.ClientName)
	if data.OwnerName != "" {
		g.kvLine(pdf, "Owner", data.OwnerName)
	}
	g.kvLine(pdf, "Industry", data.Industry)
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Delivery status")
	g.kvLine(pdf, "Stage", data.Stage)
	g.kvLine(pdf, "Status", data.Status)
	if data.DueDate != nil {
		g.kvLine(pdf, "Due date", data.DueDate.Format("02.01.2006"))
	}
	g.kvLine(pdf, "Started", data.CreatedAt.Format("02.01.2006"))
	g.kvLine(pdf, "Open tasks", fmt.Sprintf("%d", data.OpenTasks))
	g.kvLine(pdf, "Completed tasks", fmt.Sprintf("%d", data.DoneTasks))
	pdf.Ln(2)
	g.hr(pdf)

	if data.Summary != "" {
		g.sectionTitle(pdf, "Summary")
		pdf.SetFont(g.fontName, "", 11)
		pdf.MultiCell(0, 6, data.Summary, "", "L", false)
		pdf.Ln(2)
		g.hr(pdf)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("%s  |  Page %d/{nb}", g.siteTitle, pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

func (g *BriefGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *BriefGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *BriefGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
