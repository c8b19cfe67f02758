package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"parity.dev/pkg/parity/internal/adapter"
	"parity.dev/pkg/parity/internal/domain"
	m "parity.dev/pkg/parity/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "parity"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	dirFlagName      = "dir"
	parallelFlagName = "parallel"
	maxTimeFlagName  = "max-time"
	noColorFlagName  = "no-color"
	verboseFlagName  = "verbose"
	logFileFlagName  = "log-file"
	limitFlagName    = "limit"
	runIDFlagName    = "run"

	corpusDirKey        = "corpus.dir"
	corpusCatalogKey    = "corpus.catalog"
	corpusAdditionalKey = "corpus.additional"
	corpusSourceExtKey  = "corpus.source_ext"

	toolchainReferenceKey       = "toolchain.reference"
	toolchainCandidateKey       = "toolchain.candidate"
	toolchainCandidateSuffixKey = "toolchain.candidate_suffix"
	toolchainPrepareKey         = "toolchain.prepare"
	toolchainPrepareDirKey      = "toolchain.prepare_dir"

	runParallelKey         = "run.parallel"
	runMaxTimeKey          = "run.max_time"
	runReferenceTimeoutKey = "run.reference_timeout"
	runProcessLimitKey     = "run.process_limit"

	reportSummaryKey = "report.summary"
	reportNoColorKey = "report.no_color"

	historyPathKey = "history.path"

	defaultCorpusDir        = "tests"
	defaultCorpusAdditional = "additional_tests.txt"
	defaultReference        = "gcc -g -static -o {out} {src}"
	defaultCandidate        = "../scc {src}"
	defaultCandidateSuffix  = ".s"
	defaultPrepareDir       = "."
	defaultRunParallel      = 0
	defaultMaxTime          = 10 * time.Second
	defaultReferenceTimeout = 2 * time.Minute
	defaultSummary          = "total.txt"
	defaultHistoryPath      = ".parity-history.db"
	defaultHistoryLimit     = 20

	envPrefix = "PARITY"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".parity.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var defaultPrepare = []string{"make clean", "make scc"}

var globalLogger *slog.Logger

// configErr holds a config file that exists but could not be read. It is
// reported once a command runs.
var configErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(corpusDirKey, defaultCorpusDir)
	viper.SetDefault(corpusCatalogKey, "")
	viper.SetDefault(corpusAdditionalKey, defaultCorpusAdditional)
	viper.SetDefault(corpusSourceExtKey, adapter.DefaultSourceExt)

	viper.SetDefault(toolchainReferenceKey, defaultReference)
	viper.SetDefault(toolchainCandidateKey, defaultCandidate)
	viper.SetDefault(toolchainCandidateSuffixKey, defaultCandidateSuffix)
	viper.SetDefault(toolchainPrepareKey, defaultPrepare)
	viper.SetDefault(toolchainPrepareDirKey, defaultPrepareDir)

	viper.SetDefault(runParallelKey, defaultRunParallel)
	viper.SetDefault(runMaxTimeKey, defaultMaxTime.String())
	viper.SetDefault(runReferenceTimeoutKey, defaultReferenceTimeout.String())
	viper.SetDefault(runProcessLimitKey, adapter.DefaultProcessLimit.String())

	viper.SetDefault(reportSummaryKey, defaultSummary)
	viper.SetDefault(reportNoColorKey, false)
	viper.SetDefault(historyPathKey, defaultHistoryPath)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		configErr = fmt.Errorf("read %s: %w", configFileName, err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// inCorpusDir resolves a relative path against the corpus directory.
func inCorpusDir(path string) m.Path {
	if path == "" || filepath.IsAbs(path) {
		return m.Path(path)
	}

	return m.Path(filepath.Join(viper.GetString(corpusDirKey), path))
}

// corpusFromConfig resolves the corpus settings. A relative supplementary
// catalog lives inside the corpus directory.
func corpusFromConfig() domain.CorpusArgs {
	return domain.CorpusArgs{
		Dir:       m.Path(viper.GetString(corpusDirKey)),
		SourceExt: viper.GetString(corpusSourceExtKey),
		Catalog: adapter.CatalogSource{
			Override:   m.Path(viper.GetString(corpusCatalogKey)),
			Additional: inCorpusDir(viper.GetString(corpusAdditionalKey)),
		},
	}
}

func toolchainFromConfig() (m.Toolchain, error) {
	reference, err := m.ParseCommandTemplate(viper.GetString(toolchainReferenceKey))
	if err != nil {
		return m.Toolchain{}, fmt.Errorf("%s: %w", toolchainReferenceKey, err)
	}

	candidate, err := m.ParseCommandTemplate(viper.GetString(toolchainCandidateKey))
	if err != nil {
		return m.Toolchain{}, fmt.Errorf("%s: %w", toolchainCandidateKey, err)
	}

	maxTime := viper.GetDuration(runMaxTimeKey)
	if maxTime <= 0 {
		return m.Toolchain{}, fmt.Errorf("%s must be positive, got %q", runMaxTimeKey, viper.GetString(runMaxTimeKey))
	}

	return m.Toolchain{
		Reference:        reference,
		Candidate:        candidate,
		CandidateSuffix:  viper.GetString(toolchainCandidateSuffixKey),
		MaxTime:          maxTime,
		ReferenceTimeout: viper.GetDuration(runReferenceTimeoutKey),
	}, nil
}

// parsePrepare splits each configured prepare command into an argument vector.
func parsePrepare(commands []string) ([][]string, error) {
	prepare := make([][]string, 0, len(commands))

	for _, command := range commands {
		argv, err := shlex.Split(command)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %q: %w", toolchainPrepareKey, command, err)
		}

		if len(argv) == 0 {
			continue
		}

		prepare = append(prepare, argv)
	}

	return prepare, nil
}

func testArgsFromConfig(query string) (domain.TestArgs, error) {
	toolchain, err := toolchainFromConfig()
	if err != nil {
		return domain.TestArgs{}, err
	}

	prepare, err := parsePrepare(viper.GetStringSlice(toolchainPrepareKey))
	if err != nil {
		return domain.TestArgs{}, err
	}

	return domain.TestArgs{
		Corpus:     corpusFromConfig(),
		Query:      query,
		Toolchain:  toolchain,
		Prepare:    prepare,
		PrepareDir: viper.GetString(toolchainPrepareDirKey),
		Parallel:   viper.GetInt(runParallelKey),
		Summary:    inCorpusDir(viper.GetString(reportSummaryKey)),
		History:    m.Path(viper.GetString(historyPathKey)),
	}, nil
}
