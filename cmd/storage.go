// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/LeeDigitalWorks/zapctl/pkg/kube"
	"github.com/LeeDigitalWorks/zapctl/pkg/logger"
	"github.com/LeeDigitalWorks/zapctl/pkg/manifest"
	"github.com/LeeDigitalWorks/zapctl/pkg/provision"
	"github.com/LeeDigitalWorks/zapctl/pkg/storage/ec"
	"github.com/LeeDigitalWorks/zapctl/pkg/topology"
	"github.com/LeeDigitalWorks/zapctl/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Storage management commands",
	Long:  `Commands for describing and adding storage to the cluster.`,
}

var storageAddCmd = &cobra.Command{
	Use:   "add NAME [STORAGE_UNITS...]",
	Short: "Add a storage to the cluster",
	Long: `Validate a storage layout, print the storage resource and apply it with kubectl.

Storage units are given either with --device, --path and --pvc together with
--type, or positionally in the volume CLI syntax:

  zapctl storage add pool1 --storage_unit_type path replica 3 kube1:/data/a kube2:/data/a kube3:/data/a

Use --dry_run to only print the resource.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStorageAdd,
}

var storageCheckCmd = &cobra.Command{
	Use:   "check STORAGE_UNITS...",
	Short: "Check a storage layout written in the volume CLI syntax",
	Long: `Compile storage units written in the volume CLI syntax and print the resulting
volume type and distribute groups. Nothing is sent to the cluster.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStorageCheck,
}

func init() {
	rootCmd.AddCommand(storageCmd)
	storageCmd.AddCommand(storageAddCmd)
	storageCmd.AddCommand(storageCheckCmd)

	f := storageAddCmd.Flags()

	// Layout
	f.String("storage_unit_type", "", "Storage unit type of positional storage units (path, pvc, device)")
	f.String("type", "", "Storage type ("+types.VolumeTypeNames()+")")
	f.StringArray("device", nil, "Storage device in <node>:<device> format, e.g. --device kube1.example.com:/dev/vdc")
	f.StringArray("path", nil, "Storage path in <node>:<path> format, e.g. --path kube1.example.com:/exports/data")
	f.StringArray("pvc", nil, "Storage from pvc, e.g. --pvc local-pvc-1")
	f.String("disperse", "", "Disperse scheme as data+redundancy, e.g. --disperse 4+2 (implies --type Disperse)")
	f.Int("data", 0, "Number of disperse data storage units")
	f.Int("redundancy", 0, "Number of disperse redundancy storage units")
	f.Bool("allow_suboptimal", false, "Warn instead of failing when the disperse data count is odd")

	// External and tiebreaker
	f.String("external", "", "Storage from external gluster, e.g. --external gluster-node:/gluster-volname")
	f.String("gluster_options", "", "Mount options for --external, e.g. 'log-level=WARNING,reader-thread-count=2'")
	f.String("tiebreaker", "", "Tiebreaker for type Replica2, e.g. --tiebreaker tie-breaker-node:/data/tiebreaker")

	// Resource options
	f.String("volume_id", "", "Volume ID of previously created volume")
	f.String("pv_reclaim_policy", "", "PV reclaim policy ("+strings.Join(provision.ReclaimPolicies, ", ")+")")
	f.String("format", "", "Provisioning format ("+strings.Join(provision.Formats, ", ")+"), default native")
	f.Bool("single_pv_per_pool", false, "Provision the storage as 1 PV == 1 pool")

	// Execution
	f.Bool("dry_run", false, "Print the storage resource without contacting the cluster")
	f.Bool("script_mode", false, "Apply without asking for confirmation")
	f.String("kubectl_cmd", "kubectl", "kubectl command to run, e.g. 'oc' or 'microk8s kubectl'")
	f.String("kubeconfig", "", "Path to the kubeconfig file")
	f.String("context", "", "kubeconfig context to use")
	f.String("namespace", "", "Namespace to apply the storage resource in")

	storageCheckCmd.Flags().Bool("allow_suboptimal", false, "Warn instead of failing when the disperse data count is odd")
}

// StorageAddOpts holds the execution settings of storage add
type StorageAddOpts struct {
	Request    provision.Options
	ScriptMode bool
	Kubectl    kube.Config
}

func loadStorageAddOpts(cmd *cobra.Command, args []string) StorageAddOpts {
	f := cmd.Flags()
	fl := NewFlagLoader(cmd)

	req := provision.Options{
		Name:         args[0],
		StorageUnits: args[1:],
	}
	req.StorageUnitType, _ = f.GetString("storage_unit_type")
	req.Type, _ = f.GetString("type")
	req.Devices, _ = f.GetStringArray("device")
	req.Paths, _ = f.GetStringArray("path")
	req.PVCs, _ = f.GetStringArray("pvc")
	req.DisperseScheme, _ = f.GetString("disperse")
	req.DisperseData, _ = f.GetInt("data")
	req.DisperseRedundancy, _ = f.GetInt("redundancy")
	req.External, _ = f.GetString("external")
	req.GlusterOptions, _ = f.GetString("gluster_options")
	req.Tiebreaker, _ = f.GetString("tiebreaker")
	req.VolumeID, _ = f.GetString("volume_id")
	req.PVReclaimPolicy, _ = f.GetString("pv_reclaim_policy")
	req.SinglePVPerPool, _ = f.GetBool("single_pv_per_pool")
	req.DryRun, _ = f.GetBool("dry_run")
	req.Format = fl.String("format")
	req.AllowSuboptimal = fl.Bool("allow_suboptimal")

	return StorageAddOpts{
		Request:    req,
		ScriptMode: fl.Bool("script_mode"),
		Kubectl: kube.Config{
			Command:    fl.String("kubectl_cmd"),
			Kubeconfig: fl.String("kubeconfig"),
			Context:    fl.String("context"),
			Namespace:  fl.String("namespace"),
		},
	}
}

func runStorageAdd(cmd *cobra.Command, args []string) error {
	opts := loadStorageAddOpts(cmd, args)

	log := logger.With().
		Str("invocation_id", uuid.NewString()).
		Str("storage", opts.Request.Name).
		Logger()
	ctx := logger.WithLogger(cmd.Context(), &log)

	kc := kube.New(opts.Kubectl, nil)

	plan, err := provision.Resolve(ctx, opts.Request, kc)
	if err != nil {
		return kubectlHint(err)
	}
	log.Info().
		Str("type", string(plan.Type)).
		Int("units", plan.UnitCount()).
		Msg("Resolved storage")

	out := cmd.OutOrStdout()

	if plan.Disperse != nil {
		summary, err := ec.Describe(*plan.Disperse)
		if err != nil {
			return err
		}
		printDisperseSummary(out, summary)
	}

	doc, err := manifest.Build(plan).YAML()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Storage Yaml file for your reference:\n\n%s\n", doc)

	if opts.Request.DryRun {
		return nil
	}

	if !opts.ScriptMode {
		ok, err := confirm(cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !ok {
			log.Info().Msg("Storage add cancelled")
			return nil
		}
	}

	resp, err := kc.Apply(ctx, doc)
	if err != nil {
		return kubectlHint(err)
	}
	fmt.Fprintf(out, "Storage add request sent successfully\n%s\n", resp)
	return nil
}

func runStorageCheck(cmd *cobra.Command, args []string) error {
	var opts []topology.Option
	if allow, _ := cmd.Flags().GetBool("allow_suboptimal"); allow {
		opts = append(opts, topology.WithAdvisoryOptimality(func(e *topology.InvalidTopologyError) {
			logger.Warn().Str("reason", e.Reason).Msg("Accepting disperse layout")
		}))
	}

	topo, err := topology.Compile(args, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTopology(out, topo)

	if topo.Disperse != nil {
		summary, err := ec.Describe(*topo.Disperse)
		if err != nil {
			return err
		}
		printDisperseSummary(out, summary)
	}
	return nil
}

func printTopology(out io.Writer, topo *topology.Topology) {
	fmt.Fprintf(out, "Type:       %s\n", topo.Type)
	fmt.Fprintf(out, "Groups:     %d x %d\n", len(topo.Request.Groups), topo.GroupSize())
	fmt.Fprintf(out, "Canonical:  %s\n\n", topo.Request)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tUNIT\tNODE\tLOCATOR")
	fmt.Fprintln(w, "-----\t----\t----\t-------")
	for i, g := range topo.Request.Groups {
		for j, u := range g.Units {
			node, locator, _ := types.SplitAddress(u)
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", i+1, j+1, node, locator)
		}
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printDisperseSummary(out io.Writer, s *ec.Summary) {
	fmt.Fprintf(out, "Disperse Summary:\n")
	fmt.Fprintf(out, "  Scheme:           %s (data+redundancy)\n", s.Scheme)
	fmt.Fprintf(out, "  Fault Tolerance:  %d units per group\n", s.FaultTolerance)
	fmt.Fprintf(out, "  Overhead:         %.2fx\n", s.Overhead)
	fmt.Fprintf(out, "  Stripe Size:      %s\n\n", humanize.IBytes(s.StripeSize))
}

var confirmAnswers = map[string]bool{"yes": true, "y": true, "no": false, "n": false}

// ErrNoConfirmation is returned when input ends before a yes or no answer
var ErrNoConfirmation = errors.New("no confirmation received, use --script_mode to apply without asking")

// confirm asks until it reads one of yes, no, y or n
func confirm(in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Is this correct?(Yes/No): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("read confirmation: %w", err)
			}
			return false, ErrNoConfirmation
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if ok, valid := confirmAnswers[answer]; valid {
			return ok, nil
		}
	}
}

func kubectlHint(err error) error {
	if errors.Is(err, kube.ErrCommandNotFound) {
		return fmt.Errorf("%w (install kubectl or point --kubectl_cmd at it)", err)
	}
	return err
}
