package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-versedeck"
	"github.com/alnah/go-versedeck/internal/assets"
	"github.com/alnah/go-versedeck/internal/pdf"
	"github.com/alnah/go-versedeck/internal/upload"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments, comma-separated
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":         {Values: []string{"pptx", "html"}},
	"pdf-backend":    {Values: pdf.BackendNames},
	"pdf-quality":    {Values: []string{"low", "medium", "high", "max"}},
	"pdf-compliance": {Values: []string{"none", "pdfa-1b", "pdfa-2b", "pdfa-3b"}},
	"upload-backend": {Values: upload.BackendNames},
	"log-format":     {Values: []string{"text", "json"}},
	"style":          {Values: assets.NewEmbeddedLoader().ListStyles()},
	"example":        {Values: exampleNames()},

	// File flags with glob patterns
	"config":      {FileGlob: "*.yaml,*.yml"},
	"credentials": {FileGlob: "*.json,*.env"},
	"log-file":    {FileGlob: "*.log"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// documentPattern matches verse documents.
const documentPattern = "*.json,*.yaml,*.yml"

// exampleNames returns bundled example names without extensions.
func exampleNames() []string {
	var names []string
	for _, name := range versedeck.ListExamples() {
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return names
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Build flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	buildSet := extractFlagsFromFlagSet(newBuildFlagSet(&buildFlags{}))

	return []commandDef{
		{
			Name:        "build",
			Desc:        "Build a slide deck from a verse document",
			Flags:       buildSet,
			TakesFiles:  true,
			FilePattern: documentPattern,
		},
		{Name: "examples", Desc: "List bundled example documents"},
		{
			Name: "doctor",
			Desc: "Check PDF and upload backends",
			Flags: []flagDef{
				{Long: "json", Type: flagBool, Desc: "print results as JSON"},
				{Long: "credentials", Type: flagFile, FileGlob: "*.json,*.env", Desc: "credentials file to probe upload backends with"},
			},
		},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: versedeck completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(versedeck completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(versedeck completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    versedeck completion fish > ~/.config/fish/completions/versedeck.fish")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cmds := getCommands()

	fmt.Fprintln(bw, "# bash completion for versedeck")
	fmt.Fprintln(bw, "_versedeck_completions() {")
	fmt.Fprintln(bw, `    local cur prev cmd`)
	fmt.Fprintln(bw, `    cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(bw, `    prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintln(bw, `    cmd="build"`)
	fmt.Fprintln(bw, `    if [[ ${COMP_CWORD} -gt 1 ]]; then`)
	fmt.Fprintln(bw, `        case "${COMP_WORDS[1]}" in`)
	fmt.Fprintf(bw, "            %s) cmd=\"${COMP_WORDS[1]}\" ;;\n", strings.Join(commandNames(cmds), "|"))
	fmt.Fprintln(bw, `        esac`)
	fmt.Fprintln(bw, `    fi`)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, `    if [[ ${COMP_CWORD} -eq 1 && "${cur}" != -* ]]; then`)
	fmt.Fprintf(bw, "        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") $(compgen -f -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
	fmt.Fprintln(bw, `        return 0`)
	fmt.Fprintln(bw, `    fi`)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, `    case "${cmd}" in`)
	for _, c := range cmds {
		fmt.Fprintf(bw, "        %s)\n", c.Name)
		if len(c.Flags) > 0 {
			fmt.Fprintln(bw, `            case "${prev}" in`)
			for _, f := range c.Flags {
				writeBashFlagCase(bw, f)
			}
			fmt.Fprintln(bw, `            esac`)
			fmt.Fprintf(bw, "            if [[ \"${cur}\" == -* ]]; then\n")
			fmt.Fprintf(bw, "                COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(flagWords(c.Flags), " "))
			fmt.Fprintln(bw, `                return 0`)
			fmt.Fprintln(bw, `            fi`)
		}
		switch {
		case c.Name == "completion":
			fmt.Fprintln(bw, `            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )`)
		case c.Name == "help":
			fmt.Fprintf(bw, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
		case c.TakesFiles:
			fmt.Fprintf(bw, "            COMPREPLY=( $(compgen -f -X '!%s' -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n", bashExtGlob(c.FilePattern))
		}
		fmt.Fprintln(bw, `            ;;`)
	}
	fmt.Fprintln(bw, `    esac`)
	fmt.Fprintln(bw, `    return 0`)
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "shopt -s extglob 2>/dev/null")
	fmt.Fprintln(bw, "complete -F _versedeck_completions versedeck")

	return bw.Flush()
}

// writeBashFlagCase emits a case arm completing the flag's value.
func writeBashFlagCase(w io.Writer, f flagDef) {
	names := "--" + f.Long
	if f.Short != "" {
		names = "-" + f.Short + "|" + names
	}
	var reply string
	switch f.Type {
	case flagEnum:
		reply = fmt.Sprintf(`$(compgen -W "%s" -- "${cur}")`, strings.Join(f.Values, " "))
	case flagFile:
		reply = fmt.Sprintf(`$(compgen -f -X '!%s' -- "${cur}") $(compgen -d -- "${cur}")`, bashExtGlob(f.FileGlob))
	case flagDir:
		reply = `$(compgen -d -- "${cur}")`
	case flagString, flagInt:
		reply = ""
	default:
		return
	}
	fmt.Fprintf(w, "                %s) COMPREPLY=( %s ); return 0 ;;\n", names, reply)
}

// bashExtGlob turns "*.yaml,*.yml" into "@(*.yaml|*.yml)".
func bashExtGlob(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	return "@(" + strings.Join(parts, "|") + ")"
}

// flagWords lists every spelling of the flags.
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// commandNames lists the command names in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cmds := getCommands()

	fmt.Fprintln(bw, "#compdef versedeck")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "_versedeck() {")
	fmt.Fprintln(bw, "    local -a commands")
	fmt.Fprintln(bw, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(bw, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(bw, "    )")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "    if (( CURRENT == 2 )) && [[ ${words[2]} != -* ]]; then")
	fmt.Fprintln(bw, "        _describe 'command' commands")
	fmt.Fprintln(bw, "        _files -g '*.(json|yaml|yml)'")
	fmt.Fprintln(bw, "        return")
	fmt.Fprintln(bw, "    fi")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "    local cmd=build")
	fmt.Fprintln(bw, "    if (( ${commands[(I)${words[2]}:*]} )); then")
	fmt.Fprintln(bw, "        cmd=${words[2]}")
	fmt.Fprintln(bw, "        shift words")
	fmt.Fprintln(bw, "        (( CURRENT-- ))")
	fmt.Fprintln(bw, "    fi")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "    case $cmd in")
	for _, c := range cmds {
		fmt.Fprintf(bw, "        %s)\n", c.Name)
		fmt.Fprintln(bw, "            _arguments \\")
		for _, f := range c.Flags {
			fmt.Fprintf(bw, "                %s \\\n", zshFlagSpec(f))
		}
		switch {
		case c.Name == "completion":
			fmt.Fprintln(bw, "                '1:shell:(bash zsh fish)'")
		case c.Name == "help":
			fmt.Fprintf(bw, "                '1:command:(%s)'\n", strings.Join(commandNames(cmds), " "))
		case c.TakesFiles:
			fmt.Fprintf(bw, "                '*:document:_files -g \"%s\"'\n", zshGlob(c.FilePattern))
		default:
			fmt.Fprintln(bw, "                '*::'")
		}
		fmt.Fprintln(bw, "            ;;")
	}
	fmt.Fprintln(bw, "    esac")
	fmt.Fprintln(bw, "}")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, `compdef _versedeck versedeck`)

	return bw.Flush()
}

// zshFlagSpec builds an _arguments spec for one flag.
func zshFlagSpec(f flagDef) string {
	desc := zshEscape(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(`:%s:_files -g "%s"`, f.Long, zshGlob(f.FileGlob))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
}

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// zshEscape escapes characters special inside single-quoted _arguments specs.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cmds := getCommands()
	names := strings.Join(commandNames(cmds), " ")

	fmt.Fprintln(bw, "# fish completion for versedeck")
	fmt.Fprintln(bw, "function __fish_versedeck_needs_command")
	fmt.Fprintln(bw, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(bw, "    test (count $cmd) -eq 1")
	fmt.Fprintln(bw, "end")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "function __fish_versedeck_using_command")
	fmt.Fprintln(bw, "    set -l cmd (commandline -opc)")
	fmt.Fprintln(bw, "    if test (count $cmd) -gt 1")
	fmt.Fprintf(bw, "        if contains -- $cmd[2] %s\n", names)
	fmt.Fprintln(bw, "            test $argv[1] = $cmd[2]")
	fmt.Fprintln(bw, "            return")
	fmt.Fprintln(bw, "        end")
	fmt.Fprintln(bw, "    end")
	fmt.Fprintln(bw, "    test $argv[1] = build")
	fmt.Fprintln(bw, "end")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "complete -c versedeck -f")

	for _, c := range cmds {
		fmt.Fprintf(bw, "complete -c versedeck -n '__fish_versedeck_needs_command' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	fmt.Fprintln(bw)

	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_versedeck_using_command %s", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c versedeck -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			fmt.Fprintln(bw, line)
		}
		switch {
		case c.Name == "completion":
			fmt.Fprintf(bw, "complete -c versedeck -n '%s' -a 'bash zsh fish'\n", cond)
		case c.Name == "help":
			fmt.Fprintf(bw, "complete -c versedeck -n '%s' -a '%s'\n", cond, names)
		case c.TakesFiles:
			fmt.Fprintf(bw, "complete -c versedeck -n '%s' -F\n", cond)
		}
	}

	return bw.Flush()
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
