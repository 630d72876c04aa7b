package glove

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults mirror the reference trainer's compiled-in defaults.
const (
	DefaultVerbosity      = 2
	DefaultVectorSize     = 50
	DefaultThreads        = 8
	DefaultIterations     = 25
	DefaultEta            = 0.05
	DefaultAlpha          = 0.75
	DefaultXMax           = 100.0
	DefaultUseBinary      = 1 // 0: text, 1: binary, 2: both
	DefaultModel          = 2 // text output layout
	DefaultSaveGradsq     = false
	DefaultUseUnkVec      = true
	DefaultForcingEnabled = true
	DefaultRandomInit     = false
	DefaultSeed           = 1
	DefaultUseMmap        = false

	DefaultVocabFile      = "vocab.txt"
	DefaultInputFile      = "cooccurrence.shuf.bin"
	DefaultSaveFile       = "vectors"
	DefaultGradsqFile     = "gradsq"
	DefaultInitFile       = "Initialization/init.bin"
	DefaultDimsFile       = "Params/forced_up_to_300"
	DefaultWordIDsFile    = "Params/forced_words_roget_300"
	DefaultPolaritiesFile = "Params/positive_all"
	DefaultKValsFile      = "Params/k_0.1_all"
)

// Config holds every tunable and file path of the training pipeline,
// threaded explicitly to every component instead of living behind
// process-wide globals.
type Config struct {
	Verbosity  int  `mapstructure:"verbosity"`
	VectorSize int  `mapstructure:"vector_size"` // D, excludes the bias column
	Threads    int  `mapstructure:"threads"`     // T
	Iterations int  `mapstructure:"iterations"`
	Eta        float64 `mapstructure:"eta"`
	Alpha      float64 `mapstructure:"alpha"`
	XMax       float64 `mapstructure:"x_max"`

	UseBinary  int  `mapstructure:"binary"` // 0 text, 1 binary, 2 both
	Model      int  `mapstructure:"model"`  // text layout: 0, 1, or coerced-to-2
	SaveGradsq bool `mapstructure:"save_gradsq"`
	UseUnkVec  bool `mapstructure:"use_unk_vec"`

	ForcingEnabled bool  `mapstructure:"forcing_enabled"`
	RandomInit     bool  `mapstructure:"random_init"`
	Seed           int64 `mapstructure:"seed"`
	UseMmap        bool  `mapstructure:"use_mmap"` // map the co-occurrence stream instead of read(2)ing it

	VocabFile      string `mapstructure:"vocab_file"`
	InputFile      string `mapstructure:"input_file"`
	SaveFile       string `mapstructure:"save_file"`
	GradsqFile     string `mapstructure:"gradsq_file"`
	InitFile       string `mapstructure:"init_file"`
	DimsFile       string `mapstructure:"dims_file"`
	WordIDsFile    string `mapstructure:"word_ids_file"`
	PolaritiesFile string `mapstructure:"polarities_file"`
	KValsFile      string `mapstructure:"k_vals_file"`

	LogConfigFile string `mapstructure:"log_config_file"`
}

// DefaultConfig returns a configuration with the reference trainer's defaults.
func DefaultConfig() *Config {
	return &Config{
		Verbosity:      DefaultVerbosity,
		VectorSize:     DefaultVectorSize,
		Threads:        DefaultThreads,
		Iterations:     DefaultIterations,
		Eta:            DefaultEta,
		Alpha:          DefaultAlpha,
		XMax:           DefaultXMax,
		UseBinary:      DefaultUseBinary,
		Model:          DefaultModel,
		SaveGradsq:     DefaultSaveGradsq,
		UseUnkVec:      DefaultUseUnkVec,
		ForcingEnabled: DefaultForcingEnabled,
		RandomInit:     DefaultRandomInit,
		Seed:           DefaultSeed,
		UseMmap:        DefaultUseMmap,
		VocabFile:      DefaultVocabFile,
		InputFile:      DefaultInputFile,
		SaveFile:       DefaultSaveFile,
		GradsqFile:     DefaultGradsqFile,
		InitFile:       DefaultInitFile,
		DimsFile:       DefaultDimsFile,
		WordIDsFile:    DefaultWordIDsFile,
		PolaritiesFile: DefaultPolaritiesFile,
		KValsFile:      DefaultKValsFile,
	}
}

// BindFlags registers every Config field as a pflag flag against v,
// taking each flag's default from the value already present in v (for
// example one built by NewViperWithDefaults). Call flags.Parse and then
// Load, which binds each flag to its Config key, to materialize the
// final, flag-overridden Config.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("verbose", v.GetInt("verbosity"), "verbosity: 0, 1, or 2")
	flags.Int("vector-size", v.GetInt("vector_size"), "dimension of word vectors, excluding the bias term")
	flags.Int("threads", v.GetInt("threads"), "number of worker threads")
	flags.Int("iter", v.GetInt("iterations"), "number of training passes")
	flags.Float64("eta", v.GetFloat64("eta"), "initial learning rate")
	flags.Float64("alpha", v.GetFloat64("alpha"), "weighting function exponent")
	flags.Float64("x-max", v.GetFloat64("x_max"), "weighting function cutoff")
	flags.Int("binary", v.GetInt("binary"), "save format: 0 text, 1 binary, 2 both")
	flags.Int("model", v.GetInt("model"), "text layout: 0 all, 1 focal only, 2 focal+context")
	flags.Bool("save-gradsq", v.GetBool("save_gradsq"), "also save squared-gradient accumulators")
	flags.Bool("use-unk-vec", v.GetBool("use_unk_vec"), "synthesize an <unk> row in text output")
	flags.Bool("forcing-enabled", v.GetBool("forcing_enabled"), "enable polarity forcing")
	flags.Bool("random-init", v.GetBool("random_init"), "randomly initialize W instead of reading init-file")
	flags.Int64("seed", v.GetInt64("seed"), "seed for random initialization")
	flags.Bool("use-mmap", v.GetBool("use_mmap"), "memory-map the co-occurrence stream instead of read(2)")
	flags.String("vocab-file", v.GetString("vocab_file"), "vocabulary file path")
	flags.String("input-file", v.GetString("input_file"), "binary co-occurrence stream path")
	flags.String("save-file", v.GetString("save_file"), "output file path, excluding extension")
	flags.String("gradsq-file", v.GetString("gradsq_file"), "squared-gradient output path, excluding extension")
	flags.String("init-file", v.GetString("init_file"), "initialization file path")
	flags.String("dims-file", v.GetString("dims_file"), "forced-dimensions file path")
	flags.String("word-ids-file", v.GetString("word_ids_file"), "forced-word-ids file path")
	flags.String("polarities-file", v.GetString("polarities_file"), "polarities file path")
	flags.String("k-vals-file", v.GetString("k_vals_file"), "k-values file path")
	flags.String("log-config-file", v.GetString("log_config_file"), "kydenul/log options file")
}

// LoadFromFile layers a YAML/JSON/TOML config file (auto-detected by
// viper from its extension) over DefaultConfig.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	populateDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, IOError(path, err)
	}

	return decode(v)
}

// Load builds the final Config from defaults, an optional config
// file, and pflag overrides already parsed into flags.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	populateDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, IOError(configFile, err)
		}
	}

	if flags != nil {
		// Flag names are dashed while Config keys are underscored, and
		// two flags keep the reference CLI's shorter names.
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			switch f.Name {
			case "verbose":
				key = "verbosity"
			case "iter":
				key = "iterations"
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, ConfigError(bindErr.Error())
		}
	}

	return decode(v)
}

// NewViperWithDefaults returns a fresh *viper.Viper preloaded with
// DefaultConfig's values, for callers (e.g. the CLI) that need to
// construct flag usage strings via BindFlags before a config file has
// been read.
func NewViperWithDefaults() *viper.Viper {
	v := viper.New()
	populateDefaults(v)
	return v
}

func populateDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("verbosity", def.Verbosity)
	v.SetDefault("vector_size", def.VectorSize)
	v.SetDefault("threads", def.Threads)
	v.SetDefault("iterations", def.Iterations)
	v.SetDefault("eta", def.Eta)
	v.SetDefault("alpha", def.Alpha)
	v.SetDefault("x_max", def.XMax)
	v.SetDefault("binary", def.UseBinary)
	v.SetDefault("model", def.Model)
	v.SetDefault("save_gradsq", def.SaveGradsq)
	v.SetDefault("use_unk_vec", def.UseUnkVec)
	v.SetDefault("forcing_enabled", def.ForcingEnabled)
	v.SetDefault("random_init", def.RandomInit)
	v.SetDefault("seed", def.Seed)
	v.SetDefault("use_mmap", def.UseMmap)
	v.SetDefault("vocab_file", def.VocabFile)
	v.SetDefault("input_file", def.InputFile)
	v.SetDefault("save_file", def.SaveFile)
	v.SetDefault("gradsq_file", def.GradsqFile)
	v.SetDefault("init_file", def.InitFile)
	v.SetDefault("dims_file", def.DimsFile)
	v.SetDefault("word_ids_file", def.WordIDsFile)
	v.SetDefault("polarities_file", def.PolaritiesFile)
	v.SetDefault("k_vals_file", def.KValsFile)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ConfigError(err.Error())
	}

	// model coerces to 2 outside {0,1}, per the text-output layout rule.
	if cfg.Model != 0 && cfg.Model != 1 {
		cfg.Model = 2
	}

	// gradsq-file implies save-gradsq, same as the reference CLI.
	if v.IsSet("gradsq_file") && v.GetString("gradsq_file") != DefaultGradsqFile {
		cfg.SaveGradsq = true
	}

	return cfg, Validate(cfg)
}

// Validate checks that a Config is internally consistent.
func Validate(config *Config) error {
	if config == nil {
		return ConfigError("nil configuration")
	}
	if config.VectorSize <= 0 {
		return ConfigError("vector-size must be positive")
	}
	if config.Threads <= 0 {
		return ConfigError("threads must be positive")
	}
	if config.Iterations < 0 {
		return ConfigError("iter must be non-negative")
	}
	if config.Eta <= 0 {
		return ConfigError("eta must be positive")
	}
	if config.Alpha <= 0 {
		return ConfigError("alpha must be positive")
	}
	if config.XMax <= 0 {
		return ConfigError("x-max must be positive")
	}
	if config.UseBinary < 0 || config.UseBinary > 2 {
		return ConfigError("binary must be 0, 1, or 2")
	}
	if config.VocabFile == "" {
		return ConfigError("vocab-file is required")
	}
	if config.InputFile == "" {
		return ConfigError("input-file is required")
	}
	if config.SaveFile == "" {
		return ConfigError("save-file is required")
	}
	if !config.RandomInit && config.InitFile == "" {
		return ConfigError("init-file is required unless random-init is set")
	}
	if config.ForcingEnabled {
		if config.DimsFile == "" || config.WordIDsFile == "" ||
			config.PolaritiesFile == "" || config.KValsFile == "" {
			return ConfigError("all four forcing file paths are required when forcing is enabled")
		}
	}
	return nil
}
