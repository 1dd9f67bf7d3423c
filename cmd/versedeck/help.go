package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: versedeck [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build a slide deck from a verse document (default)")
	fmt.Fprintln(w, "  examples    List bundled example documents")
	fmt.Fprintln(w, "  doctor      Check PDF and upload backends")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'versedeck help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: versedeck build [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build a PowerPoint or HTML deck from a JSON or YAML verse document.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Verse document, or - for stdin (default: verses.json)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -t, --title <s>           Custom title (hides section slides)")
	fmt.Fprintln(w, "  -e, --example <name>      Use a bundled example document")
	fmt.Fprintln(w, "      --format <s>          Deck format: pptx, html")
	fmt.Fprintln(w, "      --max-chars <n>       Max characters per verse slide (default 200)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --timeout <d>         Overall timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Also export a PDF")
	fmt.Fprintln(w, "      --pdf-backend <s>     auto, libreoffice, chrome, chromedp, native")
	fmt.Fprintln(w, "      --pdf-quality <s>     Image quality: low, medium, high, max or 1-100")
	fmt.Fprintln(w, "      --pdf-pages <s>       Slide range, e.g. 1-3,5")
	fmt.Fprintln(w, "      --pdf-password <s>    Password required to open the PDF")
	fmt.Fprintln(w, "      --pdf-compliance <s>  PDF/A mode: pdfa-1b, pdfa-2b, pdfa-3b")
	fmt.Fprintln(w, "      --pdf-hidden          Include hidden slides")
	fmt.Fprintln(w, "                            Any --pdf-* flag implies --pdf")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload:")
	fmt.Fprintln(w, "      --upload              Upload the deck (and PDF)")
	fmt.Fprintln(w, "      --upload-backend <s>  auto, gdrive, s3")
	fmt.Fprintln(w, "      --credentials <path>  Drive service-account key or S3 dotenv file")
	fmt.Fprintln(w, "      --folder-id <s>       Drive folder ID or S3 bucket")
	fmt.Fprintln(w, "      --folder-name <s>     Drive folder name or S3 key prefix")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name>        HTML deck style name or CSS file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w, "      --log-file <path>     Write logs to a rotated file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage, 3 I/O, 4 PDF export, 5 upload")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "examples":
		fmt.Fprintln(env.Stdout, "Usage: versedeck examples")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List bundled example documents for use with --example.")
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: versedeck version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: versedeck help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
