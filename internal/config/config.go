package config

import (
	"os"
	"strings"
	"time"

	"github.com/limaJavier/studyplan/pkg/catalog"
	"github.com/limaJavier/studyplan/pkg/planner"
	"github.com/limaJavier/studyplan/pkg/render"
	"github.com/limaJavier/studyplan/pkg/sat"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding configuration keys
const EnvPrefix = "STUDYPLAN"

// RegulationsConfig mirrors planner.Regulations with specialities named as in catalog files
type RegulationsConfig struct {
	BachelorCredits            planner.CreditRange `mapstructure:"bachelor_credits"`
	MasterCredits              planner.CreditRange `mapstructure:"master_credits"`
	OverlapCeiling             int                 `mapstructure:"overlap_ceiling"`
	BachelorRootLectures       int                 `mapstructure:"bachelor_root_lectures"`
	MasterRootLectures         int                 `mapstructure:"master_root_lectures"`
	MasterLabMinimum           int                 `mapstructure:"master_lab_minimum"`
	MasterSeminarMinimum       int                 `mapstructure:"master_seminar_minimum"`
	SpecialityMinimum          int                 `mapstructure:"speciality_minimum"`
	SpecialityFloors           map[string]int      `mapstructure:"speciality_floors"`
	RequireIntroductorySeminar bool                `mapstructure:"require_introductory_seminar"`
}

// Config holds all runtime configuration of the planner.
// Values are populated from .studyplan.yaml, STUDYPLAN_* env vars, and CLI flags.
type Config struct {
	Solver      string            `mapstructure:"solver"`
	KissatPath  string            `mapstructure:"kissat_path"`
	CadicalPath string            `mapstructure:"cadical_path"`
	MinisatPath string            `mapstructure:"minisat_path"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Limit       int               `mapstructure:"limit"`
	LogLevel    string            `mapstructure:"log_level"`
	MetricsAddr string            `mapstructure:"metrics_addr"`
	Format      string            `mapstructure:"format"`
	Regulations RegulationsConfig `mapstructure:"regulations"`
}

// Solvers lists the accepted values of the solver key
var Solvers = []string{"gini", "gini-batch", "kissat", "cadical", "minisat"}

func setDefaults() {
	defaults := planner.DefaultRegulations()

	viper.SetDefault("solver", "gini")
	viper.SetDefault("kissat_path", sat.DefaultKissatPath)
	viper.SetDefault("cadical_path", sat.DefaultCadicalPath)
	viper.SetDefault("minisat_path", sat.DefaultMinisatPath)
	viper.SetDefault("timeout", time.Duration(0))
	viper.SetDefault("limit", 0)
	viper.SetDefault("log_level", logrus.InfoLevel.String())
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("format", string(render.FormatText))

	viper.SetDefault("regulations.bachelor_credits.min", defaults.BachelorCredits.Min)
	viper.SetDefault("regulations.bachelor_credits.max", defaults.BachelorCredits.Max)
	viper.SetDefault("regulations.master_credits.min", defaults.MasterCredits.Min)
	viper.SetDefault("regulations.master_credits.max", defaults.MasterCredits.Max)
	viper.SetDefault("regulations.overlap_ceiling", defaults.OverlapCeiling)
	viper.SetDefault("regulations.bachelor_root_lectures", defaults.BachelorRootLectures)
	viper.SetDefault("regulations.master_root_lectures", defaults.MasterRootLectures)
	viper.SetDefault("regulations.master_lab_minimum", defaults.MasterLabMinimum)
	viper.SetDefault("regulations.master_seminar_minimum", defaults.MasterSeminarMinimum)
	viper.SetDefault("regulations.speciality_minimum", defaults.SpecialityMinimum)
	viper.SetDefault("regulations.require_introductory_seminar", defaults.RequireIntroductorySeminar)
	floors := make(map[string]any, len(defaults.SpecialityFloors))
	for speciality, floor := range defaults.SpecialityFloors {
		floors[speciality.String()] = floor
	}
	viper.SetDefault("regulations.speciality_floors", floors)
}

// Init points viper at the configuration file (the given one, or .studyplan.* in the working or home
// directory) and at the environment. A missing default file is not an error.
func Init(file string) error {
	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName(".studyplan")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "cannot read configuration")
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "cannot decode configuration")
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if !lo.Contains(Solvers, cfg.Solver) {
		return errors.Errorf("unknown solver %q, expected one of %v", cfg.Solver, strings.Join(Solvers, ", "))
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return err
	}
	if cfg.Timeout < 0 || cfg.Limit < 0 {
		return errors.New("timeout and limit must not be negative")
	}
	return nil
}

// Level is the configured logging level
func (cfg Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// PlannerRegulations resolves the speciality names of the configured regulations
func (cfg Config) PlannerRegulations() (planner.Regulations, error) {
	r := cfg.Regulations
	floors := make(map[catalog.Speciality]int, len(r.SpecialityFloors))
	for name, floor := range r.SpecialityFloors {
		speciality, err := catalog.ParseSpeciality(name)
		if err != nil {
			return planner.Regulations{}, errors.Wrap(err, "invalid speciality floor")
		}
		floors[speciality] = floor
	}
	return planner.Regulations{
		BachelorCredits:            r.BachelorCredits,
		MasterCredits:              r.MasterCredits,
		OverlapCeiling:             r.OverlapCeiling,
		BachelorRootLectures:       r.BachelorRootLectures,
		MasterRootLectures:         r.MasterRootLectures,
		MasterLabMinimum:           r.MasterLabMinimum,
		MasterSeminarMinimum:       r.MasterSeminarMinimum,
		SpecialityMinimum:          r.SpecialityMinimum,
		SpecialityFloors:           floors,
		RequireIntroductorySeminar: r.RequireIntroductorySeminar,
	}, nil
}

// Factory opens oracle sessions on the configured solver
func (cfg Config) Factory() (sat.Factory, error) {
	switch cfg.Solver {
	case "gini":
		return sat.GiniFactory(sat.WithTimeout(cfg.Timeout)), nil
	case "gini-batch":
		return sat.BatchFactory(sat.NewGiniSolver(cfg.Timeout)), nil
	case "kissat":
		return sat.BatchFactory(sat.NewKissatSolver(cfg.KissatPath, cfg.Timeout)), nil
	case "cadical":
		return sat.BatchFactory(sat.NewCadicalSolver(cfg.CadicalPath, cfg.Timeout)), nil
	case "minisat":
		return sat.BatchFactory(sat.NewMinisatSolver(cfg.MinisatPath, cfg.Timeout)), nil
	}
	return nil, errors.Errorf("unknown solver %q", cfg.Solver)
}
