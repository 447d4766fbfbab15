package rrd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/kdesch5000/observium-mcp/internal/config"
	"github.com/kdesch5000/observium-mcp/internal/models"
	"github.com/kdesch5000/observium-mcp/internal/toolerr"
)

// SSHRunner serves archives from a remote host over SSH. The channel itself
// is pre-established infrastructure (host, user, key configured out-of-band);
// each call dials, runs one command and closes, so no handle survives the
// request and an unreachable host is a recoverable per-request failure.
type SSHRunner struct {
	addr    string
	user    string
	keyPath string
	timeout time.Duration
}

func NewSSHRunner(cfg *config.Config) *SSHRunner {
	return &SSHRunner{
		addr:    cfg.SSHAddr(),
		user:    cfg.SSHUser,
		keyPath: cfg.SSHKey,
		timeout: 10 * time.Second,
	}
}

func (r *SSHRunner) Mode() models.AccessMode {
	return models.AccessRemote
}

func (r *SSHRunner) dial() (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User: r.user,
		// TODO: verify against a known_hosts file
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.timeout,
	}

	if r.keyPath != "" {
		keyBytes, err := os.ReadFile(r.keyPath)
		if err != nil {
			return nil, toolerr.Wrap(toolerr.TransportFailure, err, "read ssh key %s", r.keyPath)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, toolerr.Wrap(toolerr.TransportFailure, err, "parse ssh key %s", r.keyPath)
		}
		clientConfig.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	}

	client, err := ssh.Dial("tcp", r.addr, clientConfig)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.TransportFailure, err, "ssh dial %s", r.addr)
	}
	return client, nil
}

// run executes one command string through a fresh session.
func (r *SSHRunner) run(ctx context.Context, command string) ([]byte, error) {
	client, err := r.dial()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return nil, toolerr.Wrap(toolerr.TransportFailure, err, "ssh session on %s", r.addr)
	}
	defer session.Close()

	type result struct {
		out []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		// Abandon the in-flight command; closing the client tears the
		// session down with it.
		return nil, toolerr.Wrap(toolerr.TransportFailure, ctx.Err(), "ssh command on %s", r.addr)
	case res := <-done:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(res.err, &exitErr) {
				return res.out, &CommandError{Stderr: strings.TrimSpace(string(res.out)), Err: res.err}
			}
			return nil, toolerr.Wrap(toolerr.TransportFailure, res.err, "ssh command on %s", r.addr)
		}
		return res.out, nil
	}
}

func (r *SSHRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.run(ctx, shellJoin(append([]string{name}, args...)))
}

func (r *SSHRunner) Exists(ctx context.Context, path string) (bool, error) {
	_, err := r.run(ctx, fmt.Sprintf("test -e %s", shellQuote(path)))
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *SSHRunner) ListDir(ctx context.Context, path string) ([]string, error) {
	out, err := r.run(ctx, fmt.Sprintf("ls -1 %s", shellQuote(path)))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
