// librertosd is a reference host for the kernel: it loads configuration,
// starts a tick source, wires a small producer/consumer demo over a queue,
// and runs the scheduler from its main loop until a signal asks it to stop.
//
// Grounded on the teacher's internal/runner.go flag parsing, shutdown-timer
// watchdog and deferred shutdown ordering; the teacher's plugin-style
// generator/task-builder registry has no equivalent here, since task
// registration is just librertos.CreateTask called directly below.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/djboni/librertos-go"
)

const (
	configFlagName    = "config"
	defaultConfigFile = "librertosd-config.yaml"
	hostSectionName   = "librertosd_config"
)

var (
	Version string
	GitInfo string
)

var (
	versionArg = flag.Bool(
		"version",
		false,
		librertos.FormatFlagUsage(`Print the version and exit`),
	)

	configFileArg = flag.String(
		configFlagName,
		defaultConfigFile,
		`Config file to load`,
	)

	tickPeriodArg = flag.Duration(
		"tick-period",
		0,
		librertos.FormatFlagUsage(
			`Override the "librertosd_config.tick_period" config setting`,
		),
	)
)

// DemoConfig is this host program's own YAML section, decoded alongside the
// kernel's librertos_config section by librertos.LoadConfig.
type DemoConfig struct {
	// Period of the simulated tick source.
	TickPeriod time.Duration `yaml:"tick_period"`
	// Capacity (item count) of the demo producer/consumer queue.
	QueueCapacity int `yaml:"queue_capacity"`
	// How long to wait, after a shutdown signal has stopped the scheduler
	// loop, before exiting; the full period is always waited. 0 means exit
	// immediately on signal.
	ShutdownMaxWait time.Duration `yaml:"shutdown_max_wait"`
}

const demoItemSize = 4 // one uint32 counter per item

func defaultDemoConfig() *DemoConfig {
	return &DemoConfig{
		TickPeriod:      10 * time.Millisecond,
		QueueCapacity:   8,
		ShutdownMaxWait: 2 * time.Second,
	}
}

var mainLog = librertos.NewCompLogger("main")

func main() {
	os.Exit(run())
}

func run() int {
	if !flag.Parsed() {
		flag.Parse()
	}

	if *versionArg {
		fmt.Fprintf(os.Stderr, "Version: %s, GitInfo: %s\n", Version, GitInfo)
		return 0
	}

	demoConfig := defaultDemoConfig()
	kernelConfig, err := librertos.LoadConfig(*configFileArg, nil, hostSectionName, demoConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config file: %v\n", err)
		return 1
	}

	if *tickPeriodArg > 0 {
		demoConfig.TickPeriod = *tickPeriodArg
	}

	if err := librertos.SetLogger(kernelConfig.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "error setting the logger: %v\n", err)
		return 1
	}

	librertos.Init(kernelConfig.SchedulerConfig)
	mainLog.Infof(
		"starting: tick_period=%s queue_capacity=%d policy=%v",
		demoConfig.TickPeriod, demoConfig.QueueCapacity, kernelConfig.SchedulerConfig.Policy,
	)

	queueBufSize, err := kernelConfig.DefaultQueueBufferSizeBytes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing default_queue_buffer_size: %v\n", err)
		return 1
	}
	if want := int64(demoConfig.QueueCapacity * demoItemSize); queueBufSize < want {
		queueBufSize = want
	}

	queue := &librertos.Queue{}
	queue.Init(make([]byte, int(queueBufSize)), demoConfig.QueueCapacity, demoItemSize)

	tasks := buildDemoTasks(queue)

	reporter := librertos.NewStatsReporter(kernelConfig.StatsConfig, tasks)
	librertos.CreateTask(librertos.LowPriority, reporter.Run, nil)

	var shutdownTimer *time.Timer
	if demoConfig.ShutdownMaxWait > 0 {
		shutdownTimer = time.NewTimer(1 * time.Hour)
		shutdownTimer.Stop()
		defer shutdownTimer.Stop()
	}

	tickDone := make(chan struct{})
	go runTickSource(demoConfig.TickPeriod, tickDone)
	defer close(tickDone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	schedDone := make(chan struct{})
	go runSchedLoop(schedDone)

	sig := <-sigChan
	if demoConfig.ShutdownMaxWait == 0 {
		mainLog.Warnf("%s signal received, force exit", sig)
		return 0
	}

	mainLog.Warnf("%s signal received, shutting down", sig)
	close(schedDone)

	if shutdownTimer != nil {
		shutdownTimer.Reset(demoConfig.ShutdownMaxWait)
		<-shutdownTimer.C
	}
	return 0
}

// runTickSource drives librertos.TickInterrupt at period until done is
// closed. There is no hardware timer on a development host, so a
// time.Ticker goroutine stands in for it.
func runTickSource(period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			librertos.TickInterrupt()
		case <-done:
			return
		}
	}
}

// runSchedLoop repeatedly invokes the scheduler, the cooperative-mode
// equivalent of the host's "main loop calls kernel_sched" contract
// (spec.md §2). It yields briefly between calls so an idle kernel (no
// ready tasks) does not spin the CPU.
func runSchedLoop(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
			librertos.Sched()
			time.Sleep(time.Millisecond)
		}
	}
}

// buildDemoTasks wires a small producer/consumer pipeline over queue: the
// producer writes an incrementing counter, the consumer reads and logs it.
// Both pend (rather than busy-poll) when the queue is full or empty.
func buildDemoTasks(queue *librertos.Queue) map[string]*librertos.Task {
	producerLog := librertos.NewCompLogger("producer")
	consumerLog := librertos.NewCompLogger("consumer")

	var counter uint32
	producer := librertos.CreateTask(librertos.LowPriority+1, func(_ any) {
		buf := []byte{
			byte(counter), byte(counter >> 8), byte(counter >> 16), byte(counter >> 24),
		}
		if queue.WritePend(buf, 10) {
			producerLog.Debugf("wrote %d", counter)
			counter++
		}
	}, nil)

	consumer := librertos.CreateTask(librertos.LowPriority, func(_ any) {
		buf := make([]byte, demoItemSize)
		if queue.ReadPend(buf, librertos.MaxDelay) {
			val := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
			consumerLog.Infof("read %d", val)
		}
	}, nil)

	return map[string]*librertos.Task{
		"producer": producer,
		"consumer": consumer,
	}
}

