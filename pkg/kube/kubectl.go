// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package kube drives the cluster through the kubectl command line tool.
package kube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/LeeDigitalWorks/zapctl/pkg/logger"
)

// ErrCommandNotFound is returned when the kubectl binary cannot be found
var ErrCommandNotFound = errors.New("kubectl command not found")

// CommandError reports a kubectl invocation that exited with an error
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes a command and returns its stdout
type Runner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// ExecRunner runs commands as subprocesses
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, args[0])
		}
		return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

// Config selects the kubectl binary and cluster
type Config struct {
	// Command is the kubectl invocation, split on whitespace
	// (e.g. "kubectl", "oc" or "microk8s kubectl")
	Command    string
	Kubeconfig string
	Context    string
	Namespace  string
}

// Kubectl lists nodes and applies manifests through kubectl
type Kubectl struct {
	cfg    Config
	runner Runner
}

// New creates a Kubectl. A nil runner runs real subprocesses.
func New(cfg Config, runner Runner) *Kubectl {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = "kubectl"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Kubectl{cfg: cfg, runner: runner}
}

// Command returns the base command line including cluster selection flags
func (k *Kubectl) Command() []string {
	args := strings.Fields(k.cfg.Command)
	if k.cfg.Kubeconfig != "" {
		args = append(args, "--kubeconfig", k.cfg.Kubeconfig)
	}
	if k.cfg.Context != "" {
		args = append(args, "--context", k.cfg.Context)
	}
	if k.cfg.Namespace != "" {
		args = append(args, "--namespace", k.cfg.Namespace)
	}
	return args
}

func (k *Kubectl) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(k.Command(), args...)
	logger.Ctx(ctx).Debug().Strs("args", full).Msg("running kubectl")
	return k.runner.Run(ctx, full)
}

type nodeList struct {
	Items []struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"items"`
}

// Nodes returns the names of all cluster nodes
func (k *Kubectl) Nodes(ctx context.Context) ([]string, error) {
	out, err := k.run(ctx, "get", "nodes", "-ojson")
	if err != nil {
		return nil, err
	}

	var list nodeList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("parse node list: %w", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.Metadata.Name)
	}
	return names, nil
}

// Apply writes manifest to a temporary file and applies it. The file is
// removed whether or not the apply succeeds.
func (k *Kubectl) Apply(ctx context.Context, manifest []byte) ([]byte, error) {
	f, err := os.CreateTemp("", "zapctl-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("create manifest file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(manifest); err != nil {
		f.Close()
		return nil, fmt.Errorf("write manifest file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close manifest file: %w", err)
	}

	return k.run(ctx, "apply", "-f", f.Name())
}
