package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatTOML, FormatCSV}
}

func ParseFormat(name string) (Format, error) {
	format := Format(name)
	if !lo.Contains(Formats(), format) {
		return "", errors.Errorf("unknown output format %q", name)
	}
	return format, nil
}

// Export is the document written by the structured exporters
type Export struct {
	Outcome string         `json:"outcome" toml:"outcome"`
	Raw     int            `json:"raw" toml:"raw"`
	Plans   []PlanDocument `json:"plans" toml:"plans"`
	Core    []string       `json:"core,omitempty" toml:"core,omitempty"`
}

type PlanDocument struct {
	Fingerprint  string             `json:"fingerprint" toml:"fingerprint"`
	Specialities []string           `json:"specialities" toml:"specialities"`
	Bachelor     float64            `json:"bachelor_ects" toml:"bachelor_ects"`
	Master       float64            `json:"master_ects" toml:"master_ects"`
	Semesters    []SemesterDocument `json:"semesters" toml:"semesters"`
}

type SemesterDocument struct {
	Number  int              `json:"number" toml:"number"`
	Credits float64          `json:"ects" toml:"ects"`
	Modules []ModuleDocument `json:"modules" toml:"modules"`
}

type ModuleDocument struct {
	ID      string  `json:"id" toml:"id"`
	Name    string  `json:"name" toml:"name"`
	Type    string  `json:"type" toml:"type"`
	Credits float64 `json:"ects" toml:"ects"`
	Branch  string  `json:"branch" toml:"branch"`
}

// Row is one module of one plan in the CSV export
type Row struct {
	Plan        int    `csv:"plan"`
	Fingerprint string `csv:"fingerprint"`
	Semester    int    `csv:"semester"`
	ModuleID    string `csv:"module_id"`
	Name        string `csv:"name"`
	Type        string `csv:"type"`
	Credits     string `csv:"ects"`
	Branch      string `csv:"branch"`
}

func ects(halfCredits int) float64 {
	return float64(halfCredits) / 2
}

// NewExport builds the structured document of a planner result
func NewExport(result planner.Result) (Export, error) {
	plans := make([]PlanDocument, 0, len(result.Solutions))
	for _, solution := range result.Solutions {
		fingerprint, err := Fingerprint(solution)
		if err != nil {
			return Export{}, err
		}
		plans = append(plans, PlanDocument{
			Fingerprint: fingerprint,
			Specialities: lo.Map(solution.Specialities[:], func(speciality catalog.Speciality, _ int) string {
				return speciality.String()
			}),
			Bachelor: ects(solution.Credits(catalog.Bachelor)),
			Master:   ects(solution.Credits(catalog.Master)),
			Semesters: lo.Map(solution.Semesters, func(semester planner.SemesterPlan, _ int) SemesterDocument {
				return SemesterDocument{
					Number:  semester.Number(),
					Credits: ects(semester.Credits()),
					Modules: lo.Map(semester.Assignments, func(assignment planner.Assignment, _ int) ModuleDocument {
						return ModuleDocument{
							ID:      assignment.ModuleID,
							Name:    assignment.Name,
							Type:    assignment.Type.String(),
							Credits: ects(assignment.Credits),
							Branch:  assignment.Branch.String(),
						}
					}),
				}
			}),
		})
	}
	return Export{
		Outcome: result.Outcome.String(),
		Raw:     result.Raw,
		Plans:   plans,
		Core:    result.Core,
	}, nil
}

func JSON(w io.Writer, result planner.Result) error {
	export, err := NewExport(result)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(export), "cannot write JSON export")
}

func TOML(w io.Writer, result planner.Result) error {
	export, err := NewExport(result)
	if err != nil {
		return err
	}
	return errors.Wrap(toml.NewEncoder(w).Encode(export), "cannot write TOML export")
}

// CSV writes one row per module of every plan
func CSV(w io.Writer, result planner.Result) error {
	rows := make([]*Row, 0)
	for i, solution := range result.Solutions {
		fingerprint, err := Fingerprint(solution)
		if err != nil {
			return err
		}
		for _, semester := range solution.Semesters {
			for _, assignment := range semester.Assignments {
				rows = append(rows, &Row{
					Plan:        i + 1,
					Fingerprint: fingerprint,
					Semester:    semester.Number(),
					ModuleID:    assignment.ModuleID,
					Name:        assignment.Name,
					Type:        assignment.Type.String(),
					Credits:     strconv.FormatFloat(ects(assignment.Credits), 'f', -1, 64),
					Branch:      assignment.Branch.String(),
				})
			}
		}
	}
	return errors.Wrap(gocsv.Marshal(&rows, w), "cannot write CSV export")
}

// Write renders a result in the given format. The text format lists every plan in full, then the footer.
func Write(w io.Writer, format Format, result planner.Result, c *catalog.Catalog) error {
	switch format {
	case FormatJSON:
		return JSON(w, result)
	case FormatTOML:
		return TOML(w, result)
	case FormatCSV:
		return CSV(w, result)
	}
	for i, solution := range result.Solutions {
		fingerprint, err := Fingerprint(solution)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Plan #%d [%v]\n", i+1, fingerprint); err != nil {
			return err
		}
		if err := Text(w, solution, c); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return Footer(w, result)
}

// Footer tells how a result came about and, when no plan exists, which rules conflict
func Footer(w io.Writer, result planner.Result) error {
	if _, err := fmt.Fprintf(w, "%d distinct plans (%d raw), enumeration %v\n", result.Distinct, result.Raw, result.Outcome); err != nil {
		return err
	}
	if len(result.Core) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "No plan satisfies these rules together:"); err != nil {
		return err
	}
	for _, label := range result.Core {
		if _, err := fmt.Fprintf(w, "  - %v\n", label); err != nil {
			return err
		}
	}
	return nil
}
