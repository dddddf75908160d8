// Kernel configuration, loaded from a YAML file with section dispatch, the
// same shape as the teacher's config.go: a top-level document with a named
// section this package owns (librertos_config) and, for a host program, a
// sibling section it owns itself (for cmd/librertosd: librertosd_config,
// with the demo's tick period, queue capacity and shutdown wait).
//
// librertos_config:
//   scheduler_config:
//     ...
//   logger_config:
//     ...
//   stats_config:
//     ...

package librertos_internal

import (
	"fmt"
	"io"
	"os"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

const (
	LibrertosConfigSectionName = "librertos_config"

	SchedulerConfigDefaultNumPriorities = 4
	SchedulerConfigDefaultPolicy        = Cooperative

	StatsConfigDefaultReportIntervalTicks = 1000
)

// SchedulerConfig configures Kernel.Init.
type SchedulerConfig struct {
	// Number of priority levels, i.e. valid task priorities are
	// [0, NumPriorities). Must be at least 1.
	NumPriorities int `yaml:"num_priorities"`
	// Cooperative or Preemptive.
	Policy SchedulerPolicy `yaml:"policy"`
}

func (p SchedulerPolicy) String() string {
	switch p {
	case Cooperative:
		return "cooperative"
	case Preemptive:
		return "preemptive"
	default:
		return "unknown"
	}
}

// MarshalYAML renders the policy as its string name.
func (p SchedulerPolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML parses the policy from its string name.
func (p *SchedulerPolicy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "cooperative":
		*p = Cooperative
	case "preemptive":
		*p = Preemptive
	default:
		return fmt.Errorf("invalid scheduler policy: %q", s)
	}
	return nil
}

// DefaultSchedulerConfig returns the kernel's out-of-the-box scheduler
// configuration: cooperative dispatch, four priority levels.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		NumPriorities: SchedulerConfigDefaultNumPriorities,
		Policy:        SchedulerConfigDefaultPolicy,
	}
}

// StatsConfig configures the periodic stats reporter (stats_reporter.go).
type StatsConfig struct {
	// How often, in ticks, the reporter logs a stats delta. 0 disables
	// periodic reporting.
	ReportIntervalTicks uint32 `yaml:"report_interval_ticks"`
}

// DefaultStatsConfig returns the default stats-reporting cadence.
func DefaultStatsConfig() *StatsConfig {
	return &StatsConfig{
		ReportIntervalTicks: StatsConfigDefaultReportIntervalTicks,
	}
}

// KernelConfig is the top-level, YAML-decodable configuration for the
// kernel package. A host program (cmd/librertosd) embeds its own
// sibling-section config alongside this one and passes both to LoadConfig.
type KernelConfig struct {
	SchedulerConfig *SchedulerConfig `yaml:"scheduler_config"`
	LoggerConfig    *LoggerConfig    `yaml:"logger_config"`
	StatsConfig     *StatsConfig     `yaml:"stats_config"`

	// Size, in bytes, of the backing buffer allocated for demo queues that
	// don't specify one of their own. Accepts human-readable sizes
	// ("4KiB", "1MB"), parsed with github.com/docker/go-units.RAMInBytes at
	// point of use, the same convention the teacher uses for its
	// batch-size settings.
	DefaultQueueBufferSize string `yaml:"default_queue_buffer_size"`
}

// DefaultQueueBufferSizeBytes parses DefaultQueueBufferSize.
func (c *KernelConfig) DefaultQueueBufferSizeBytes() (int64, error) {
	return units.RAMInBytes(c.DefaultQueueBufferSize)
}

const KernelConfigDefaultQueueBufferSize = "4KiB"

// DefaultKernelConfig returns the kernel's complete set of defaults.
func DefaultKernelConfig() *KernelConfig {
	return &KernelConfig{
		SchedulerConfig:        DefaultSchedulerConfig(),
		LoggerConfig:           DefaultLoggerConfig(),
		StatsConfig:            DefaultStatsConfig(),
		DefaultQueueBufferSize: KernelConfigDefaultQueueBufferSize,
	}
}

// LoadConfig loads the configuration from the specified YAML file (or buf,
// for testing, which takes precedence when non-nil) as follows:
//   - the librertos_config section is returned as a *KernelConfig
//   - hostSectionName, if non-empty, is decoded into hostConfig, which is
//     expected to have been primed with defaults by the caller
//
// An error is returned if the file cannot be read or parsed.
func LoadConfig(cfgFile string, buf []byte, hostSectionName string, hostConfig any) (*KernelConfig, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	kernelConfig := DefaultKernelConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any = nil
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				switch n.Value {
				case LibrertosConfigSectionName:
					toCfg = kernelConfig
				case hostSectionName:
					toCfg = hostConfig
				default:
					toCfg = nil
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err := n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}

	return kernelConfig, nil
}
