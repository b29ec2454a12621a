package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hupe1980/qtensor/numa"
)

type nodeReport struct {
	ID   int    `json:"id" yaml:"id"`
	CPUs string `json:"cpus" yaml:"cpus"`
}

type topologyReport struct {
	Source      string       `json:"source" yaml:"source"`
	Nodes       []nodeReport `json:"nodes" yaml:"nodes"`
	CurrentCPU  int          `json:"current_cpu" yaml:"current_cpu"`
	CurrentNode int          `json:"current_node" yaml:"current_node"`
	Policy      string       `json:"policy" yaml:"policy"`
}

func topologyCmd() *cli.Command {
	var sysfsRoot string

	flags := append([]cli.Flag{}, commonFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "sysfs",
			Usage:       "NUMA node directory",
			Value:       numa.SysfsNodePath,
			Destination: &sysfsRoot,
		},
	)

	return &cli.Command{
		Name:  "topology",
		Usage: "Show the NUMA nodes and the allocation policy in effect",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log, err := newLogger(os.Stderr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			report := buildTopologyReport(sysfsRoot, log)

			return stdoutReport(report, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "Source:       %s\n", report.Source)
				_, _ = fmt.Fprintf(w, "Policy:       %s\n", report.Policy)
				_, _ = fmt.Fprintf(w, "Current CPU:  %d (node %d)\n", report.CurrentCPU, report.CurrentNode)
				_, _ = fmt.Fprintf(w, "Nodes:        %d\n", len(report.Nodes))
				for _, n := range report.Nodes {
					cpus := n.CPUs
					if cpus == "" {
						cpus = "(memory only)"
					}
					_, _ = fmt.Fprintf(w, "  node%-3d %s\n", n.ID, cpus)
				}
			})
		},
	}
}

// buildTopologyReport reads the node layout under root, falling back to a
// single node when it is unavailable.
func buildTopologyReport(root string, log *slog.Logger) topologyReport {
	report := topologyReport{Source: root}
	topo, err := numa.LoadTopology(root)
	if err != nil {
		log.Warn("no NUMA topology, assuming a single node", "error", err)
		topo = numa.SingleNode()
		report.Source = "fallback"
	}

	for _, id := range topo.Nodes() {
		report.Nodes = append(report.Nodes, nodeReport{
			ID:   id,
			CPUs: numa.FormatCPUList(topo.NodeCPUs(id)),
		})
	}
	report.CurrentCPU = numa.CurrentCPU()
	report.CurrentNode = topo.CurrentNode()

	policy, err := numa.ParsePolicy(os.Getenv(numa.PolicyEnv))
	if err != nil {
		log.Warn("ignoring invalid policy", "env", numa.PolicyEnv, "error", err)
		policy = numa.PolicyLocal
	}
	report.Policy = policy.String()
	return report
}
