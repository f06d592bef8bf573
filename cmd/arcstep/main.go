package main

import (
	"fmt"
	"os"
	"strings"
)

// Version is set at build time via ldflags
var Version = "dev"

const (
	daemonAddr = "http://127.0.0.1:7433"
	pidFile    = "arcstepd.pid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "start":
		err = cmdStart()
	case "stop":
		err = cmdStop()
	case "status":
		err = cmdStatus()
	case "logs":
		err = cmdLogs()
	case "config":
		err = cmdConfig()
	case "provider":
		err = cmdProvider(os.Args[2:])
	case "onboard":
		err = cmdOnboard()
	case "tree":
		err = cmdTree()
	case "toggle":
		err = cmdToggle(os.Args[2:])
	case "regen":
		err = cmdRegenerate(os.Args[2:])
	case "prestige":
		err = cmdPrestige(os.Args[2:])
	case "stats":
		err = cmdStats()
	case "circle":
		err = cmdCircle()
	case "invite":
		err = cmdInvite(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("arcstep %s\n", Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Arcstep - Skill Tree Habit Progression

Usage:
  arcstep <command> [arguments]

Daemon Commands:
  start           Start the Arcstep daemon
  stop            Stop the Arcstep daemon
  status          Show daemon status
  logs            View daemon logs
  config          Show current configuration
  provider        Manage LLM providers

Progress Commands:
  onboard         Answer onboarding goals and generate challenges
  tree            Show the skill tree with completion state
  toggle          Toggle a challenge: arcstep toggle <node> <challenge>
  regen           Regenerate a node's challenges: arcstep regen <node>
  prestige        Show, trigger, or dismiss prestige
  stats           Show XP, level and progression stats

Social Commands:
  circle          Show your circle ranked by weekly completion
  invite          Show or regenerate your invite code

Other:
  help            Show this help message
  version         Show version information

Examples:
  arcstep start                   # Start daemon
  arcstep toggle vitality vitality-c1
  arcstep prestige trigger        # Reset the tree, keep XP
  arcstep stats                   # Show level and XP`)
}

// renderProgressBar creates a visual progress bar
func renderProgressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", empty) + "]"
}
