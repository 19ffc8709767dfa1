// Command table2dict converts the tables of an HTML, DOCX, XLSX, ODT, PPTX
// or EPUB file into JSON record mappings.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/tsawler/table2dict"
	"github.com/tsawler/table2dict/internal/logging"
)

// config holds the persistent flags shared by every subcommand.
type config struct {
	table      int
	mode       string
	indent     int
	output     string
	headerRows int
	rowHeaders bool
	sheet      string
	charset    string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "table2dict:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:   "table2dict [file]",
		Short: "Convert document tables into JSON records",
		Long: `table2dict reads a table from an HTML, DOCX, XLSX, ODT, PPTX or EPUB
file, works out its header rows and whether its first column labels the
rows, and prints the table as a JSON mapping from header keys to column
values.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run(cfg, dictOutput),
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&cfg.table, "table", 0, "Table index in the document (0-indexed)")
	flags.StringVar(&cfg.mode, "mode", "ordered", "Record mode: normal or ordered")
	flags.IntVar(&cfg.indent, "indent", table2dict.DefaultIndent, "JSON indent width, 0 for compact output")
	flags.StringVarP(&cfg.output, "output", "o", "", "Output file path (default: stdout)")
	flags.IntVar(&cfg.headerRows, "header-rows", 0, "Treat the first n rows as header rows")
	flags.BoolVar(&cfg.rowHeaders, "row-headers", false, "Treat the first cell of each body row as a row header")
	flags.StringVar(&cfg.sheet, "sheet", "", "XLSX sheet name (default: all sheets)")
	flags.StringVar(&cfg.charset, "charset", "", "HTML input encoding, e.g. windows-1252 (default: sniffed)")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.logFormat, "log-format", "text", "Log format: text, json")

	rootCmd.AddCommand(
		subcommand("info", "Print the table classification", cfg, infoOutput),
		subcommand("header", "Print the header grid, one list per column", cfg, headerOutput),
		subcommand("body", "Print the body grid, one list per column", cfg, bodyOutput),
		subcommand("list", "Print the header and body grids joined", cfg, listOutput),
		subcommand("keys", "Print the record keys", cfg, keysOutput),
		subcommand("dict", "Print the record mapping (default)", cfg, dictOutput),
		subcommand("inspect", "Dump the analyzed table layout", cfg, inspectOutput),
	)

	return rootCmd
}

func subcommand(name, short string, cfg *config, produce producer) *cobra.Command {
	return &cobra.Command{
		Use:           name + " [file]",
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run(cfg, produce),
	}
}

// producer renders one view of the selected table.
type producer func(c *table2dict.Converter, indent int) ([]byte, error)

func run(cfg *config, produce producer) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := cfg.converter(cmd.ErrOrStderr(), args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		data, err := produce(c, cfg.indent)
		if err != nil {
			return err
		}
		return cfg.write(cmd.OutOrStdout(), data)
	}
}

// converter builds a Converter for filename from the flags.
func (cfg *config) converter(logOut io.Writer, filename string) (*table2dict.Converter, error) {
	if cfg.indent < 0 {
		return nil, fmt.Errorf("--indent must not be negative, got %d", cfg.indent)
	}
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.logFormat)
	if err != nil {
		return nil, err
	}

	c := table2dict.Open(filename).
		Table(cfg.table).
		Mode(cfg.mode).
		Indent(cfg.indent).
		Logger(logging.New(logOut, level, format))
	if cfg.headerRows > 0 {
		c = c.HeaderRows(cfg.headerRows)
	}
	if cfg.rowHeaders {
		c = c.RowHeaders()
	}
	if cfg.sheet != "" {
		c = c.Sheet(cfg.sheet)
	}
	if cfg.charset != "" {
		c = c.Charset(cfg.charset)
	}
	return c, nil
}

// write sends data to the output file, or to stdout with a trailing newline.
func (cfg *config) write(stdout io.Writer, data []byte) error {
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if cfg.output != "" {
		if err := os.WriteFile(cfg.output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := stdout.Write(data)
	return err
}

func dictOutput(c *table2dict.Converter, _ int) ([]byte, error) {
	return c.JSON()
}

func infoOutput(c *table2dict.Converter, indent int) ([]byte, error) {
	info, err := c.Info()
	if err != nil {
		return nil, err
	}
	return table2dict.EncodeJSON(info, indent)
}

func headerOutput(c *table2dict.Converter, indent int) ([]byte, error) {
	header, err := c.Header()
	if err != nil {
		return nil, err
	}
	return table2dict.EncodeJSON(header, indent)
}

func bodyOutput(c *table2dict.Converter, indent int) ([]byte, error) {
	body, err := c.Body()
	if err != nil {
		return nil, err
	}
	return table2dict.EncodeJSON(body, indent)
}

func listOutput(c *table2dict.Converter, indent int) ([]byte, error) {
	list, err := c.List()
	if err != nil {
		return nil, err
	}
	return table2dict.EncodeJSON(list, indent)
}

func keysOutput(c *table2dict.Converter, indent int) ([]byte, error) {
	keys, err := c.Keys()
	if err != nil {
		return nil, err
	}
	return table2dict.EncodeJSON(keys, indent)
}

func inspectOutput(c *table2dict.Converter, _ int) ([]byte, error) {
	layout, err := c.Layout()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	dumper.Fdump(&buf, layout)
	return buf.Bytes(), nil
}
