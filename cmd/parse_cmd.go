package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/m-cat/over/parse"
	"github.com/m-cat/over/pkg"
	"github.com/spf13/cobra"
)

type ParseParams struct {
	Find   string `json:"find"`   // 查找的字段路径，例如 server.port
	Input  string `json:"input"`  // 输入文件路径，支持 .over / .yaml / .toml
	Output string `json:"output"` // 输出文件地址，为空时输出到标准输出
	Format string `json:"format"` // 输出格式: over 或 yaml
}

var params *ParseParams

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "evaluate an OVER, YAML or TOML document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseRun,
}

func init() {
	params = &ParseParams{}
	parseCmd.Flags().StringVarP(&params.Find, "find", "f", "", "dotted field path to print")
	parseCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	parseCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	parseCmd.Flags().StringVar(&params.Format, "format", "over", "output format (over|yaml)")
}

func parseRun(cmd *cobra.Command, args []string) error {
	if len(params.Input) == 0 && len(args) > 0 {
		params.Input = args[0]
	}
	format, err := parse.ParseFormat(params.Format)
	if err != nil {
		return err
	}
	return convert(params.Input, params.Output, params.Find, format)
}

// convert loads input, optionally narrows it to one field, and writes the
// result to output or stdout.
func convert(input, output, find string, format parse.Format) error {
	if len(input) == 0 {
		return errors.New("no input file path")
	}
	exist, err := pkg.CheckFileExist(input)
	if err != nil {
		return fmt.Errorf("check file exist error: %w", err)
	}
	if !exist {
		return fmt.Errorf("input file %s not exist", input)
	}

	log.Printf("loading %s", input)
	obj, err := parse.LoadFile(input)
	if err != nil {
		return err
	}

	value, err := parse.Find(obj, find)
	if err != nil {
		return err
	}
	out, err := parse.RenderValue(value, format)
	if err != nil {
		return err
	}

	if len(output) == 0 {
		fmt.Print(string(out))
		return nil
	}
	if err := pkg.WriteFileString(output, string(out)); err != nil {
		return err
	}
	log.Printf("wrote %s as %s", output, format)
	return nil
}
