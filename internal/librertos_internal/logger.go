// Structured logging: one root logrus logger, with per-component
// sub-loggers distinguished by a "comp" field. Source-file paths in log
// records are relativized against the module root so they stay readable
// regardless of GOPATH/module cache layout.

package librertos_internal

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LoggerConfigUseJsonDefault          = true
	LoggerConfigLevelDefault            = "info"
	LoggerConfigDisableSrcFileDefault   = false
	LoggerConfigLogFileDefault          = "" // i.e. stderr
	LoggerConfigLogFileMaxSizeMBDefault = 10
	LoggerConfigLogFileMaxBackupDefault = 1

	LoggerDefaultLevel    = logrus.InfoLevel
	LoggerTimestampFormat = time.RFC3339
	// Extra field added for component sub loggers:
	LoggerComponentFieldName = "comp"
)

// CollectableLogger wraps logrus.Logger with the extra surface the test
// log collector (librertos_testutils.LogCollector) needs to swap in a
// *testing.T-backed writer and restore the prior configuration afterward.
type CollectableLogger struct {
	logrus.Logger
	// Cache of whether debug-level logging is enabled, so hot paths can
	// skip formatting expensive debug messages without a vtable call into
	// logrus first.
	IsEnabledForDebug bool
}

func (log *CollectableLogger) GetOutput() io.Writer {
	return log.Out
}

func (log *CollectableLogger) GetLevel() any {
	return log.Logger.GetLevel()
}

func (log *CollectableLogger) SetLevel(level any) {
	if level, ok := level.(logrus.Level); ok {
		log.Logger.SetLevel(level)
		log.IsEnabledForDebug = log.IsLevelEnabled(logrus.DebugLevel)
	}
}

// LoggerConfig configures the root logger.
type LoggerConfig struct {
	// Whether to structure the logged record in JSON.
	UseJson bool `yaml:"use_json"`
	// Log level name: info, warn, ...
	Level string `yaml:"level"`
	// Whether to disable the reporting of the source file:line# info.
	DisableSrcFile bool `yaml:"disable_src_file"`
	// Whether to log to a file or, if empty, to stderr.
	LogFile string `yaml:"log_file"`
	// Log file max size, in MB, before rotation; 0 selects lumberjack's own
	// default size (100 MB).
	LogFileMaxSizeMB int `yaml:"log_file_max_size_mb"`
	// How many older log files to keep upon rotation.
	LogFileMaxBackupNum int `yaml:"log_file_max_backup_num"`
}

func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		UseJson:             LoggerConfigUseJsonDefault,
		Level:               LoggerConfigLevelDefault,
		DisableSrcFile:      LoggerConfigDisableSrcFileDefault,
		LogFile:             LoggerConfigLogFileDefault,
		LogFileMaxSizeMB:    LoggerConfigLogFileMaxSizeMBDefault,
		LogFileMaxBackupNum: LoggerConfigLogFileMaxBackupDefault,
	}
}

// ModuleDirPathCache strips a module-root prefix (or keeps a fixed number
// of trailing path components) from logged source file paths, so records
// stay readable regardless of where the module was checked out or built.
type ModuleDirPathCache struct {
	// Prefixes to strip from a logged file path, sorted longest-first.
	prefixList []string
	// If no prefix matches, the number of trailing directories to keep.
	keepNDirs int
}

func (p *ModuleDirPathCache) addPrefix(prefix string) error {
	i := len(p.prefixList) - 1
	for i >= 0 {
		if p.prefixList[i] == prefix {
			return nil // already there
		}
		if len(p.prefixList[i]) > len(prefix) {
			break
		}
		i--
	}
	i++
	if i >= len(p.prefixList) {
		p.prefixList = append(p.prefixList, prefix)
	} else {
		p.prefixList = append(p.prefixList[:i+1], p.prefixList[i:]...)
		p.prefixList[i] = prefix
	}
	return nil
}

func (p *ModuleDirPathCache) stripPrefix(filePath string) string {
	for _, prefix := range p.prefixList {
		if strings.HasPrefix(filePath, prefix) {
			return filePath[len(prefix):]
		}
	}
	pathComp := strings.Split(filePath, "/")
	keepNComps := p.keepNDirs + 1
	if keepNComps < 1 {
		keepNComps = 1
	}
	if keepNComps < len(pathComp) {
		filePath = path.Join(pathComp[len(pathComp)-keepNComps:]...)
	}
	return filePath
}

func (p *ModuleDirPathCache) SetKeepNDirs(n int) {
	p.keepNDirs = n
}

var moduleDirPathCache = &ModuleDirPathCache{
	prefixList: []string{},
	keepNDirs:  1, // typically the last directory is the package
}

// AddCallerSrcPathPrefixToLogger records the caller's source directory,
// upNDirs levels up, as a prefix to strip from logged file paths. skip is
// the number of additional stack frames to skip, needed when this is
// called through an exported wrapper that adds its own frame.
func AddCallerSrcPathPrefixToLogger(upNDirs int, skip int) error {
	skip += 1 // skip this function
	_, file, _, ok := runtime.Caller(skip)
	if !ok {
		return fmt.Errorf("cannot determine source root: runtime.Caller(%d) failed", skip)
	}
	prefix := path.Dir(file)
	for i := 0; i < upNDirs; i++ {
		prefix = path.Dir(prefix)
	}
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	moduleDirPathCache.addPrefix(prefix)
	return nil
}

// LogFuncFilePair caches the formatted (function, file:line) pair for one
// caller PC, so repeated log calls from the same site don't reformat it.
type LogFuncFilePair struct {
	function string
	file     string
}

type LogFuncFileCache struct {
	m             *sync.Mutex
	funcFileCache map[uintptr]*LogFuncFilePair
}

// LogCallerPrettyfier returns the function name and relativized
// file:line# for a log record's caller frame.
func (c *LogFuncFileCache) LogCallerPrettyfier(f *runtime.Frame) (function string, file string) {
	c.m.Lock()
	defer c.m.Unlock()
	funcFile := c.funcFileCache[f.PC]
	if funcFile == nil {
		funcFile = &LogFuncFilePair{
			"",
			fmt.Sprintf("%s:%d", moduleDirPathCache.stripPrefix(f.File), f.Line),
		}
		c.funcFileCache[f.PC] = funcFile
	}
	return funcFile.function, funcFile.file
}

var logFunctionFileCache = &LogFuncFileCache{
	m:             &sync.Mutex{},
	funcFileCache: make(map[uintptr]*LogFuncFilePair),
}

var LogFieldKeySortOrder = map[string]int{
	// Desired order: time, level, comp, file, func, other fields sorted
	// alphabetically, then msg. Negative numbers for fields preceding
	// "other", which all look up as 0.
	logrus.FieldKeyTime:      -5,
	logrus.FieldKeyLevel:     -4,
	LoggerComponentFieldName: -3,
	logrus.FieldKeyFile:      -2,
	logrus.FieldKeyFunc:      -1,
	logrus.FieldKeyMsg:       1,
}

type LogFieldKeySortable struct {
	keys []string
}

func (d *LogFieldKeySortable) Len() int {
	return len(d.keys)
}

func (d *LogFieldKeySortable) Less(i, j int) bool {
	keyI, keyJ := d.keys[i], d.keys[j]
	orderI, orderJ := LogFieldKeySortOrder[keyI], LogFieldKeySortOrder[keyJ]
	if orderI != 0 || orderJ != 0 {
		return orderI < orderJ
	}
	return strings.Compare(keyI, keyJ) == -1
}

func (d *LogFieldKeySortable) Swap(i, j int) {
	d.keys[i], d.keys[j] = d.keys[j], d.keys[i]
}

func LogSortFieldKeys(keys []string) {
	sort.Sort(&LogFieldKeySortable{keys})
}

var LogTextFormatter = &logrus.TextFormatter{
	DisableColors:    true,
	DisableQuote:     false,
	FullTimestamp:    true,
	TimestampFormat:  LoggerTimestampFormat,
	CallerPrettyfier: logFunctionFileCache.LogCallerPrettyfier,
	DisableSorting:   false,
	SortingFunc:      LogSortFieldKeys,
}

var LogJsonFormatter = &logrus.JSONFormatter{
	TimestampFormat:  LoggerTimestampFormat,
	CallerPrettyfier: logFunctionFileCache.LogCallerPrettyfier,
}

var RootLogger = &CollectableLogger{
	Logger: logrus.Logger{
		Out:          os.Stderr,
		Formatter:    LogTextFormatter,
		Level:        LoggerDefaultLevel,
		ReportCaller: true,
	},
}

// GetRootLogger exposes the root logger, needed by the test log collector.
func GetRootLogger() *CollectableLogger { return RootLogger }

func GetLogLevelNames() []string {
	levelNames := make([]string, len(logrus.AllLevels))
	for i, level := range logrus.AllLevels {
		levelNames[i] = level.String()
	}
	return levelNames
}

func init() {
	// The module root is 2 directories up from this package's own
	// directory; no extra frames to skip since this is a direct call.
	AddCallerSrcPathPrefixToLogger(2, 0)
}

// SetLogger applies logCfg (or the defaults, if nil) to the root logger.
func SetLogger(logCfg *LoggerConfig) error {
	if logCfg == nil {
		logCfg = DefaultLoggerConfig()
	}

	levelName := logCfg.Level
	if levelName != "" {
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			return err
		}
		RootLogger.SetLevel(level)
	}

	if logCfg.UseJson {
		RootLogger.SetFormatter(LogJsonFormatter)
	} else {
		RootLogger.SetFormatter(LogTextFormatter)
	}

	RootLogger.SetReportCaller(!logCfg.DisableSrcFile)

	switch logFile := logCfg.LogFile; logFile {
	case "stderr":
		RootLogger.SetOutput(os.Stderr)
	case "stdout":
		RootLogger.SetOutput(os.Stdout)
	case "":
	default:
		logDir := path.Dir(logCfg.LogFile)
		if _, err := os.Stat(logDir); err != nil {
			if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
				return err
			}
		}
		_, err := os.Stat(logCfg.LogFile)
		forceRotate := err == nil
		lumberjackLogger := &lumberjack.Logger{
			Filename:   logCfg.LogFile,
			MaxSize:    logCfg.LogFileMaxSizeMB,
			MaxBackups: logCfg.LogFileMaxBackupNum,
		}
		if forceRotate {
			if err := lumberjackLogger.Rotate(); err != nil {
				return err
			}
		}
		RootLogger.SetOutput(lumberjackLogger)
	}

	return nil
}

// NewCompLogger returns a sub-logger tagging every record with
// comp=compName, the convention every kernel component uses for its own
// package-level logger variable.
func NewCompLogger(compName string) *logrus.Entry {
	return RootLogger.WithField(LoggerComponentFieldName, compName)
}
