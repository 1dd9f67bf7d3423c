package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-versedeck"
	"github.com/alnah/go-versedeck/internal/upload"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string                    `json:"status"` // "ready", "warnings", "errors"
	PDF      []versedeck.BackendStatus `json:"pdf_backends"`
	Upload   []versedeck.BackendStatus `json:"upload_backends,omitempty"`
	Chrome   chromeInfo                `json:"chrome"`
	Env      envInfo                   `json:"environment"`
	System   systemInfo                `json:"system"`
	Warnings []string                  `json:"warnings,omitempty"`
	Errors   []string                  `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
	Soffice       string `json:"soffice,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds doctor command flags.
type doctorFlags struct {
	json        bool
	credentials string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	f := doctorFlags{}
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.StringVar(&f.credentials, "credentials", "", "credentials file to probe upload backends with")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	credentials := f.credentials
	if credentials == "" {
		credentials = env.Getenv("VERSEDECK_CREDENTIALS")
	}
	if credentials == "" {
		credentials = env.Getenv(upload.CredentialsEnv)
	}

	result := runDoctor(env, credentials)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment, credentials string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
			Soffice:    env.Getenv("VERSEDECK_SOFFICE"),
		},
	}

	checkBackends(env, credentials, result)
	checkChrome(result)
	checkEnvironment(env, result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkBackends probes PDF backends, and upload backends when credentials
// are known.
func checkBackends(env *Environment, credentials string, result *doctorResult) {
	builder, err := versedeck.NewBuilder(env.BuilderOptions...)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot create builder: %v", err))
		return
	}
	defer func() { _ = builder.Close() }()

	result.PDF = builder.PDFBackends()
	available := 0
	for _, st := range result.PDF {
		if st.Available {
			available++
		}
	}
	switch {
	case available == 0:
		result.Errors = append(result.Errors, "No PDF backend available")
	case !backendAvailable(result.PDF, "libreoffice"):
		result.Warnings = append(result.Warnings,
			"LibreOffice not found: PPTX decks export with the native backend. Install LibreOffice or set VERSEDECK_SOFFICE")
	}

	if credentials == "" {
		return
	}
	result.Upload = builder.UploadBackends(credentials)
	if !backendAvailable(result.Upload, "") {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("No upload backend accepts %s", credentials))
	}
}

// backendAvailable reports whether the named backend, or any backend when
// name is empty, is available.
func backendAvailable(statuses []versedeck.BackendStatus, name string) bool {
	for _, st := range statuses {
		if (name == "" || st.Name == name) && st.Available {
			return true
		}
	}
	return false
}

// checkChrome detects Chrome/Chromium installation.
// A missing browser is a warning: the PPTX path never needs one.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: chrome and chromedp PDF backends unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(env *Environment, result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("VERSEDECK_CONTAINER") == "1" {
		return true, "VERSEDECK_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF staging is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "versedeck-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorUsage prints help for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: versedeck doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report which PDF and upload backends can run here.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --credentials <path>  Probe upload backends with this file")
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "versedeck doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF backends")
	printStatuses(w, r.PDF)
	fmt.Fprintln(w)

	if len(r.Upload) > 0 {
		fmt.Fprintln(w, "Upload backends")
		printStatuses(w, r.Upload)
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printStatuses prints one line per backend.
func printStatuses(w io.Writer, statuses []versedeck.BackendStatus) {
	for _, st := range statuses {
		mark := "[OK]"
		if !st.Available {
			mark = "[--]"
		}
		if st.Detail != "" {
			fmt.Fprintf(w, "  %s %s: %s\n", mark, st.Name, st.Detail)
		} else {
			fmt.Fprintf(w, "  %s %s\n", mark, st.Name)
		}
	}
}
