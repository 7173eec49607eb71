package cli

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/Fepozopo/synthfill/pkg/stdimg"
	"github.com/Fepozopo/synthfill/pkg/synthesis"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  m  - select the mask image (white/light pixels are the hole to fill)")
	fmt.Println("  c  - configure synthesis parameters")
	fmt.Println("  r  - run inpainting")
	fmt.Println("  o  - open another source image")
	fmt.Println("  s  - save the inpainted result")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

func RunCLI() {
	var inputImagePath string
	if len(os.Args) >= 2 {
		inputImagePath = os.Args[1]
	}

	var cur image.Image
	var currentFormat string
	var maskImg image.Image
	var result *image.NRGBA
	cfg := synthesis.DefaultConfig()

	if inputImagePath != "" {
		img, format, err := LoadImage(inputImagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", inputImagePath, err)
			os.Exit(1)
		}
		cur = img
		currentFormat = format
		_ = PreviewImage(cur, currentFormat)
		if info, ierr := GetImageInfoImage(cur); ierr == nil {
			fmt.Println(info)
		}
	}

	fmt.Println("Patch-Based Inpainting")
	usage()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		r, _, err := reader.ReadRune()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input error: %v\n", err)
			continue
		}

		switch r {
		case 'm':
			selected, selErr := SelectFileWithFzf(".")
			var maskPath string
			if selErr != nil || selected == "" {
				maskPath, _ = PromptLine("Enter path to mask image (leave empty to cancel): ")
				if maskPath == "" {
					fmt.Println("mask selection cancelled")
					continue
				}
			} else {
				maskPath = selected
			}
			img, _, err := LoadImage(maskPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to read mask %s: %v\n", maskPath, err)
				continue
			}
			maskImg = img
			fmt.Printf("Mask set from %s\n", maskPath)
			continue

		case 'c':
			configureLoop(&cfg)
			continue

		case 'r':
			if cur == nil {
				fmt.Println("No source image loaded. Press 'o' to open one first, or provide an image path as the first argument.")
				continue
			}
			if maskImg == nil {
				fmt.Println("No mask loaded. Press 'm' to select a mask image first.")
				continue
			}
			frame, err := stdimg.FrameFromImage(cur)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to convert source image: %v\n", err)
				continue
			}
			mask := stdimg.MaskFromImage(maskImg, 128)
			pool := synthesis.NewWorkerPool(0)
			res, err := synthesis.Inpaint(frame, mask, nil, cfg, 1, pool, nil, nil, nil, false)
			if err != nil {
				fmt.Fprintf(os.Stderr, "inpainting failed: %v\n", err)
				continue
			}
			result = stdimg.ImageFromFrame(res.Frame)
			fmt.Println("Inpainting complete")
			_ = PreviewImage(result, "png")
			continue

		case 's':
			if result == nil {
				fmt.Println("Nothing to save yet — run inpainting with 'r' first.")
				continue
			}
			out, _ := PromptLine("Enter output filename: ")
			if out == "" {
				fmt.Println("no filename provided")
				continue
			}
			if err := SaveImage(out, result); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write image: %v\n", err)
				continue
			}
			fmt.Printf("Saved to %s\n", out)

		case 'o':
			selected, selErr := SelectFileWithFzf(".")
			var newPath string
			if selErr != nil || selected == "" {
				newPath, _ = PromptLine("Enter path to image to open (leave empty to cancel): ")
				if newPath == "" {
					fmt.Println("open cancelled")
					continue
				}
			} else {
				newPath = selected
			}

			img, format, err := LoadImage(newPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", newPath, err)
				continue
			}
			cur = img
			currentFormat = format
			result = nil
			fmt.Printf("Opened %s\n", newPath)
			_ = PreviewImage(cur, currentFormat)
			if info, ierr := GetImageInfoImage(cur); ierr == nil {
				fmt.Println(info)
			}
			continue

		case 'u':
			err := CheckForUpdates()
			if err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}
			continue

		case 'h':
			usage()
			continue

		case 'q':
			fmt.Println("Exiting...")
			return

		default:
			// ignore other keys
		}
	}
}

// configureLoop lets the user review and edit cfg's fields in place; an
// empty line at any prompt keeps that field's current value.
func configureLoop(cfg *synthesis.Config) {
	fmt.Println("\nConfiguration (press enter to keep the current value):")
	for _, p := range ConfigParams {
		cur := currentConfigValue(*cfg, p.Name)
		tooltip := GenerateTooltip(p)
		fmt.Println(tooltip)

		var raw string
		var err error
		if p.Type == ParamTypeEnum {
			name, ferr := SelectCoarseInitializerWithFzf()
			if ferr == nil && name != "" {
				raw = name
			} else {
				raw, err = PromptLine(fmt.Sprintf("%s [%s]: ", p.Name, cur))
			}
		} else {
			raw, err = PromptLine(fmt.Sprintf("%s [%s]: ", p.Name, cur))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", err)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if verr := ApplyConfigParam(cfg, p, raw); verr != nil {
			fmt.Fprintf(os.Stderr, "%v (keeping previous value)\n", verr)
		}
	}
	fmt.Println("configuration updated")
}

func currentConfigValue(cfg synthesis.Config, name string) string {
	switch name {
	case "coarseInitializer":
		return cfg.CoarseInitializer.String()
	case "weightFactor":
		return strconv.FormatFloat(cfg.WeightFactor, 'f', -1, 64)
	case "borderFactor":
		return strconv.Itoa(cfg.BorderFactor)
	case "maxSpatialCost":
		return strconv.FormatUint(uint64(cfg.MaxSpatialCost), 10)
	case "optimizationIterations":
		return strconv.Itoa(cfg.OptimizationIterations)
	case "coarsestSweeps":
		return strconv.Itoa(cfg.CoarsestSweeps)
	case "forced1ChannelLayers":
		return strconv.Itoa(cfg.Forced1ChannelLayers)
	case "skippingLayers":
		return strconv.Itoa(cfg.SkippingLayers)
	case "binomialOnCoarsest":
		return strconv.FormatBool(cfg.BinomialOnCoarsest)
	case "binomialOnFine":
		return strconv.FormatBool(cfg.BinomialOnFine)
	case "appearanceCandidates":
		return strconv.Itoa(cfg.AppearanceCandidates)
	case "patchMatchWindowRadius":
		return strconv.Itoa(cfg.PatchMatchWindowRadius)
	case "decayRadii":
		return strconv.Itoa(cfg.DecayRadii)
	case "finestFloatSweeps":
		return strconv.Itoa(cfg.FinestFloatSweeps)
	case "seamBlendBand":
		return strconv.Itoa(cfg.SeamBlendBand)
	default:
		return ""
	}
}
