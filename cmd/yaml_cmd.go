package cmd

import (
	"github.com/m-cat/over/parse"
	"github.com/spf13/cobra"
)

type YamlParams struct {
	Input   string `json:"input"`   // 输入文件路径
	Output  string `json:"output"`  // 输出文件地址
	Reverse bool   `json:"reverse"` // 反向转换: 输出 OVER 格式
}

var yamlParams *YamlParams

var yamlCmd = &cobra.Command{
	Use:   "yaml [file]",
	Short: "convert a document to YAML, or YAML back to OVER",
	Args:  cobra.MaximumNArgs(1),
	RunE:  yamlRun,
}

func init() {
	yamlParams = &YamlParams{}
	yamlCmd.Flags().StringVarP(&yamlParams.Input, "input", "i", "", "input file path")
	yamlCmd.Flags().StringVarP(&yamlParams.Output, "output", "o", "", "output path")
	yamlCmd.Flags().BoolVarP(&yamlParams.Reverse, "reverse", "r", false, "write OVER instead of YAML")
}

func yamlRun(cmd *cobra.Command, args []string) error {
	if len(yamlParams.Input) == 0 && len(args) > 0 {
		yamlParams.Input = args[0]
	}
	format := parse.FormatYAML
	if yamlParams.Reverse {
		format = parse.FormatOver
	}
	return convert(yamlParams.Input, yamlParams.Output, "", format)
}
