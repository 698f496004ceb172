package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/Expenditure-Tracking-App/Expenditure-Tracking-Service/internal/adapter/client"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.OpBold).Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(out)
	baseURL := fs.String("url", "http://localhost:8000", "Base URL of the classifier service")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: classify [-url URL] [-timeout D] text...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no text to classify")
	}

	c := client.NewPredictClient(*baseURL, *timeout)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Text", "Label", "Confidence"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, text := range fs.Args() {
		resp, err := c.Predict(context.Background(), text)
		if err != nil {
			return fmt.Errorf("classify %q: %w", text, err)
		}
		table.Append([]string{text, resp.Label, fmt.Sprintf("%.2f%%", resp.Score*100)})
	}

	table.Render()
	return nil
}
