//    \\ svbd: long-term backup for short high-value secrets.
//  \\\\\ Copyright 2024-present the svbd contributors.
// \\\\\\\ SPDX-License-Identifier: Apache-2.0

// Command e2e drives the svbd and custodian binaries as black boxes:
// it never imports internal/*, only spawns the built binaries and
// watches their stdout, the same way a deployment would observe them.
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	expect "github.com/google/goexpect"
)

const (
	timeout    = 2 * time.Minute
	numServers = 5
	basePort   = 9443
)

// fleet runs one custodian process per server location, each with its
// own data directory and port, so the test can take individual
// custodians down and back up without disturbing the others.
type fleet struct {
	svbdBin      string
	custodianBin string
	workDir      string
	channelDir   string
	procs        []*exec.Cmd
	ports        []int
}

func newFleet(svbdBin, custodianBin, workDir, channelDir string) *fleet {
	return &fleet{svbdBin: svbdBin, custodianBin: custodianBin, workDir: workDir, channelDir: channelDir,
		procs: make([]*exec.Cmd, numServers), ports: make([]int, numServers)}
}

func (f *fleet) url(i int) string {
	return fmt.Sprintf("https://127.0.0.1:%d", f.ports[i])
}

func (f *fleet) start(i int) error {
	port := basePort + i
	f.ports[i] = port
	dataDir := filepath.Join(f.workDir, fmt.Sprintf("custodian-%d", i))
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	cmd := exec.Command(f.custodianBin)
	// sqlite, not memory: custodian 0 gets restarted mid-scenario and
	// must still have the share it stored before going down.
	cmd.Env = append(os.Environ(),
		"SVBD_CUSTODIAN_PORT="+strconv.Itoa(port),
		"SVBD_CUSTODIAN_DATA_DIR="+dataDir,
		"SVBD_CUSTODIAN_BACKEND=sqlite",
		"SVBD_CUSTODIAN_SQLITE_PATH="+filepath.Join(dataDir, "shares.db"),
		"SVBD_CHANNEL_DIR="+f.channelDir,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	f.procs[i] = cmd
	time.Sleep(500 * time.Millisecond) // let the listener come up
	return nil
}

func (f *fleet) startAll() error {
	for i := 0; i < numServers; i++ {
		if err := f.start(i); err != nil {
			return err
		}
	}
	return nil
}

func (f *fleet) takeDown(i int) error {
	if f.procs[i] == nil {
		return nil
	}
	err := f.procs[i].Process.Kill()
	_ = f.procs[i].Wait()
	f.procs[i] = nil
	return err
}

func (f *fleet) restart(i int) error {
	return f.start(i)
}

func (f *fleet) shutdown() {
	for i := range f.procs {
		_ = f.takeDown(i)
	}
}

// runAndExpect spawns command and asserts its output matches pattern
// before timeout, failing the whole test run otherwise.
func runAndExpect(command, pattern string) {
	child, _, err := expect.Spawn(command, -1)
	if err != nil {
		log.Fatalf("spawn %q: %v", command, err)
	}
	defer func() { _ = child.Close() }()

	if _, _, err := child.Expect(regexp.MustCompile(pattern), timeout); err != nil {
		log.Fatalf("command %q: expected %q: %v", command, pattern, err)
	}
}

func main() {
	workDir, err := os.MkdirTemp("", "svbd-e2e-")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	svbdBin := os.Getenv("SVBD_BIN")
	if svbdBin == "" {
		svbdBin = "./svbd"
	}
	custodianBin := os.Getenv("SVBD_CUSTODIAN_BIN")
	if custodianBin == "" {
		custodianBin = "./custodian"
	}

	channelDir := filepath.Join(workDir, "channel")
	metadataFile := filepath.Join(workDir, "secret.svbd-metadata")

	fl := newFleet(svbdBin, custodianBin, workDir, channelDir)
	if err := fl.startAll(); err != nil {
		log.Fatal(err)
	}
	defer fl.shutdown()

	serverFlags := ""
	for i := 0; i < numServers; i++ {
		serverFlags += fmt.Sprintf(" --server %s", fl.url(i))
	}

	shareCmd := fmt.Sprintf(
		"%s share --secret SomeSecretValue --secret-name demo --owner-id-type email "+
			"--owner-id backup@svbd.example --k 3%s --channel-dir %s --metadata-file %s "+
			"--insecure-skip-tls-verify",
		svbdBin, serverFlags, channelDir, metadataFile)
	runAndExpect(shareCmd, "Stored 5 shares")

	// Take two custodians down; recovery should still succeed with 3.
	if err := fl.takeDown(0); err != nil {
		log.Fatal(err)
	}
	if err := fl.takeDown(1); err != nil {
		log.Fatal(err)
	}

	recoverCmd := fmt.Sprintf(
		"%s recover --metadata-file %s --channel-dir %s --insecure-skip-tls-verify",
		svbdBin, metadataFile, channelDir)
	runAndExpect(recoverCmd, "Recovered using 3 shares\r?\nSomeSecretValue")

	// Take a third custodian down; only 2 remain, below the threshold.
	if err := fl.takeDown(2); err != nil {
		log.Fatal(err)
	}
	runAndExpect(recoverCmd, "too few shares")

	// Bring one back; 3 are available again, recovery should succeed.
	if err := fl.restart(0); err != nil {
		log.Fatal(err)
	}
	runAndExpect(recoverCmd, "Recovered using 3 shares\r?\nSomeSecretValue")

	fmt.Println("e2e: full 3-of-5 sharing scenario passed")
}
