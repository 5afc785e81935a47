package catalog

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type RawModule struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	Type         string   `mapstructure:"type"`
	Root         bool     `mapstructure:"root"`
	Introductory bool     `mapstructure:"introductory"`
	Credits      int      `mapstructure:"credits"`
	Degree       string   `mapstructure:"degree"`
	Specialities []string `mapstructure:"specialities"`
	Requires     []string `mapstructure:"requires"`
	Seasons      []string `mapstructure:"seasons"`
	Forced       bool     `mapstructure:"forced"`
}

type RawSemester struct {
	Phases     []string    `mapstructure:"phases"`
	Season     string      `mapstructure:"season"`
	MinCredits int         `mapstructure:"min_credits"`
	MaxCredits int         `mapstructure:"max_credits"`
	Modules    []RawModule `mapstructure:"modules"`
}

type RawCatalog struct {
	Semesters []RawSemester `mapstructure:"semesters"`
	Modules   []RawModule   `mapstructure:"modules"`
}

// LoadFile reads a catalog from a JSON, TOML or YAML file (the format is taken from the extension)
func LoadFile(file string) (*Catalog, error) {
	reader := viper.New()
	reader.SetConfigFile(file)
	if err := reader.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "cannot read catalog file %v", file)
	}

	var rawCatalog RawCatalog
	if err := mapstructure.Decode(reader.AllSettings(), &rawCatalog); err != nil {
		return nil, errors.Wrapf(err, "cannot decode catalog file %v", file)
	}
	return ProcessRawCatalog(rawCatalog)
}

// ProcessRawCatalog resolves the names used in a raw catalog and builds it
func ProcessRawCatalog(rawCatalog RawCatalog) (*Catalog, error) {
	semesters := make([]Semester, 0, len(rawCatalog.Semesters))
	for _, rawSemester := range rawCatalog.Semesters {
		phases, err := parseAll(rawSemester.Phases, ParsePhase)
		if err != nil {
			return nil, err
		}
		season := Unspecified
		if rawSemester.Season != "" {
			if season, err = ParseSeason(rawSemester.Season); err != nil {
				return nil, err
			}
		}
		modules, err := parseAll(rawSemester.Modules, processRawModule)
		if err != nil {
			return nil, err
		}

		semesters = append(semesters, Semester{
			Phases:     phases,
			Season:     season,
			MinCredits: rawSemester.MinCredits,
			MaxCredits: rawSemester.MaxCredits,
			Modules:    modules,
		})
	}

	modules, err := parseAll(rawCatalog.Modules, processRawModule)
	if err != nil {
		return nil, err
	}
	return Build(semesters, modules)
}

func processRawModule(rawModule RawModule) (Module, error) {
	if rawModule.ID == "" {
		return Module{}, Configurationf("module %q has no identifier", rawModule.Name)
	}

	kind := Lecture
	if rawModule.Type != "" {
		var err error
		if kind, err = ParseKind(rawModule.Type); err != nil {
			return Module{}, err
		}
	}

	phase := Bachelor
	if rawModule.Degree != "" {
		var err error
		if phase, err = ParsePhase(rawModule.Degree); err != nil {
			return Module{}, err
		}
	}
	specialities, err := parseAll(rawModule.Specialities, ParseSpeciality)
	if err != nil {
		return Module{}, err
	}
	if phase == Bachelor && len(specialities) > 0 {
		return Module{}, Configurationf("bachelor module %v declares specialities", rawModule.ID)
	}

	seasons, err := parseAll(rawModule.Seasons, ParseSeason)
	if err != nil {
		return Module{}, err
	}

	return Module{
		ID:   rawModule.ID,
		Name: lo.Ternary(rawModule.Name != "", rawModule.Name, rawModule.ID),
		Type: ModuleType{
			Kind:         kind,
			Root:         kind == Lecture && rawModule.Root,
			Introductory: kind == Seminar && rawModule.Introductory,
		},
		Credits:  rawModule.Credits,
		Degree:   Degree{Phase: phase, Specialities: specialities},
		Requires: rawModule.Requires,
		Seasons:  seasons,
		Forced:   rawModule.Forced,
	}, nil
}

func parseAll[T, R any](values []T, parse func(T) (R, error)) ([]R, error) {
	parsed := make([]R, 0, len(values))
	for _, value := range values {
		result, err := parse(value)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, result)
	}
	return parsed, nil
}
