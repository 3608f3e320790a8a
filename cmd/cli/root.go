package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"supplychain-agent/internal/agent"
	"supplychain-agent/internal/app"
	"supplychain-agent/internal/model/llm"
	"supplychain-agent/pkg/config"
	"supplychain-agent/pkg/log"
	"supplychain-agent/pkg/tracing"
)

// Version 构建时可通过 -ldflags 覆盖
var Version = "0.1.0"

type rootOptions struct {
	configFile string
	envFile    string
	maxSteps   int
	model      string
	verbose    bool

	in     io.Reader
	out    io.Writer
	client llm.Client // 非 nil 时替换配置中的模型客户端
	tracer *sdktrace.TracerProvider
}

func newRootCmd(in io.Reader, out io.Writer, client llm.Client) *cobra.Command {
	opts := &rootOptions{in: in, out: out, client: client}

	rootCmd := &cobra.Command{
		Use:           "sca",
		Short:         "Supply Chain Risk Analyst agent",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if opts.tracer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return opts.tracer.Shutdown(ctx)
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (yaml)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before config")
	flags.IntVar(&opts.maxSteps, "max-steps", 0, "max model calls per question (default from config)")
	flags.StringVar(&opts.model, "model", "", "model name override")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print each reasoning step")

	rootCmd.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newToolsCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig 读取 .env 与配置文件，命令行参数覆盖配置
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.model != "" {
		cfg.Model.Name = o.model
	}
	if o.maxSteps > 0 {
		cfg.Agent.MaxSteps = o.maxSteps
	}
	return cfg, nil
}

func (o *rootOptions) bootstrap(ctx context.Context) (*app.Bootstrap, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := o.initTracing(cfg.Monitoring.Tracing); err != nil {
		return nil, err
	}

	logCfg := &log.Config{Level: cfg.Log.Level, Format: "text"}
	if !o.verbose {
		logCfg.Level = "error"
	}
	bopts := []app.Option{app.WithLogger(log.NewLoggerWithWriter(logCfg, os.Stderr))}
	if o.client != nil {
		bopts = append(bopts, app.WithLLMClient(o.client))
	}
	if o.verbose {
		bopts = append(bopts, app.WithAgentOptions(agent.WithObserver(o.printEvent)))
	}
	b, err := app.NewBootstrap(ctx, cfg, bopts...)
	if err != nil {
		return nil, err
	}
	for _, key := range b.Config.MissingCredentials() {
		if key == config.EnvOpenAIKey && o.client != nil {
			continue
		}
		fmt.Fprintf(o.out, "Warning: %s not found in environment or .env file.\n", key)
	}
	return b, nil
}

// initTracing 开启后 run/step/tool span 导出到 OTLP endpoint
func (o *rootOptions) initTracing(tc config.TracingConfig) error {
	endpoint := tc.ExportEndpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if !tc.Enable || endpoint == "" {
		return nil
	}
	tp, err := tracing.InitTracer(tracing.OTelConfig{
		ServiceName:    tc.ServiceName,
		ExportEndpoint: endpoint,
		Insecure:       tc.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	o.tracer = tp
	return nil
}

// printEvent 逐步打印推理过程
func (o *rootOptions) printEvent(ev agent.Event) {
	switch ev.Kind {
	case agent.EventStepStart:
		fmt.Fprintf(o.out, "--- Step %d ---\n", ev.Step)
	case agent.EventToolCall:
		fmt.Fprintf(o.out, "Agent wants to use tool: %s with input: '%s'\n", ev.Tool, ev.Input)
	case agent.EventObservation:
		fmt.Fprintf(o.out, "Observation: %s...\n", truncate(ev.Observation, 200))
	case agent.EventAnswer:
		fmt.Fprintln(o.out, "Agent has formulated the final answer.")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func printAnalysis(w io.Writer, answer string) {
	fmt.Fprintln(w, "\n--- Analysis ---")
	fmt.Fprintln(w, answer)
	fmt.Fprintln(w, strings.Repeat("-", 20)+"\n")
}
