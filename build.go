//go:build ignore

// build.go - gdreport build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

const (
	module     = "gdreport"
	binaryName = "gdreport"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
}

var (
	rootDir string
	distDir string

	// Release platforms as GOOS/GOARCH
	releaseTargets = []string{
		"linux/amd64",
		"linux/arm64",
		"darwin/arm64",
		"windows/amd64",
	}
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); err != nil {
		panic(fmt.Sprintf("go.mod not found in %s; run build.go from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	ctx := &BuildContext{Verbose: *verbose}

	switch *target {
	case "all":
		buildAll(ctx)
	case "test":
		runTests(ctx.Verbose)
	case "clean":
		clean(ctx.Verbose)
	case "release":
		buildRelease(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	cyan := color.New(color.FgCyan)
	cyan.Println("===========================================")
	cyan.Println("        gdreport - Build System")
	cyan.Println("===========================================")
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s %s\n", color.BlueString("[INFO]"), msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s %s\n", color.GreenString("[SUCCESS]"), msg)
}

func printError(msg string) {
	fmt.Printf("%s %s\n", color.RedString("[ERROR]"), msg)
}

// Build the server binary for the host platform
func buildAll(ctx *BuildContext) {
	printInfo("Building gdreport...")
	prepareDirectories(ctx.Verbose)
	buildExecutable(ctx, filepath.Join(distDir, executableName(ctx.GOOS)))
	copyAssets(ctx.Verbose)
	printSuccess("All components built successfully!")
}

// ldflags stamps build time and commit into the config package
func ldflags() string {
	commit := "unknown"
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	return fmt.Sprintf("-s -w -X %s/internal/config.BuildTime=%s -X %s/internal/config.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, commit)
}

func executableName(goos string) string {
	if goos == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

func buildExecutable(ctx *BuildContext, outputPath string) {
	args := []string{"build", "-trimpath", "-ldflags", ldflags(), "-o", outputPath, "./cmd/" + binaryName}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if ctx.GOOS != "" {
		cmd.Env = append(cmd.Env, "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH)
	}

	if ctx.Verbose {
		fmt.Printf("Running from %s: go %s\n", rootDir, strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", outputPath, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", filepath.Base(outputPath), sizeMB))
	}
}

// Clean build artifacts
func clean(verbose bool) {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean dist directory: %v", err))
		return
	}
	if verbose {
		fmt.Printf("Removed %s\n", distDir)
	}
	printSuccess("Build artifacts cleaned")
}

// Run tests
func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}

	printSuccess("All tests passed")
}

// Build release binaries for every platform
func buildRelease(ctx *BuildContext) {
	printInfo("Building release version...")
	clean(ctx.Verbose)
	prepareDirectories(ctx.Verbose)

	for _, target := range releaseTargets {
		goos, goarch, _ := strings.Cut(target, "/")
		platformCtx := &BuildContext{Verbose: ctx.Verbose, GOOS: goos, GOARCH: goarch}
		out := filepath.Join(distDir, goos+"-"+goarch, executableName(goos))
		buildExecutable(platformCtx, out)
	}
	copyAssets(ctx.Verbose)

	versionFile := filepath.Join(distDir, "VERSION.txt")
	content := fmt.Sprintf("gdreport\nBuilt: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(versionFile, []byte(content), 0o644); err != nil {
		printError(fmt.Sprintf("Failed to write %s: %v", versionFile, err))
	}

	printSuccess("Release build completed")
}

func prepareDirectories(verbose bool) {
	for _, dir := range []string{distDir, filepath.Join(distDir, "data"), filepath.Join(distDir, "images")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			printError(fmt.Sprintf("Failed to create %s: %v", dir, err))
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("Created %s\n", dir)
		}
	}
}

// copyAssets copies the images and example config next to the binary when
// they exist in the repository.
func copyAssets(verbose bool) {
	if err := copyDir(filepath.Join(rootDir, "images"), filepath.Join(distDir, "images")); err != nil && !os.IsNotExist(err) {
		printError(fmt.Sprintf("Failed to copy images: %v", err))
	}
	for _, name := range []string{"config.yaml", "configs/config.yaml"} {
		src := filepath.Join(rootDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(distDir, "config.yaml")); err != nil {
			printError(fmt.Sprintf("Failed to copy %s: %v", name, err))
		} else if verbose {
			fmt.Printf("Copied %s\n", name)
		}
		break
	}
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func copyDir(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all       Build gdreport for this platform (default)")
	fmt.Println("  test      Run all tests with the race detector")
	fmt.Println("  clean     Remove dist/")
	fmt.Println("  release   Build binaries for every release platform")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v        Verbose output")
}
