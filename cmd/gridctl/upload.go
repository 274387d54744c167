package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kasuganosora/datagrid/pkg/resource/http"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [flags] file...",
	Short: "upload documents to the configured upload endpoint.",
	Long: `Upload one document for recognition, or several documents (or any
document with --template) for batch processing against report templates.
The endpoint and credentials come from the upload section of the
configuration.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		env, err := setup(cmd)
		if err != nil {
			return err
		}

		client, err := http.NewUploadClient(&env.cfg.Upload)
		if err != nil {
			return err
		}
		return runUpload(ctx, client, args, getStringArray(cmd, "template"), os.Stdout)
	},
}

// uploader is the part of the upload client used by the command.
type uploader interface {
	UploadFile(ctx context.Context, filename string, content io.Reader) (*http.DocumentResponse, error)
	UploadMultiple(ctx context.Context, templateIDs []string, files []http.FormFile) (*http.ProcessResponse, error)
}

// runUpload sends a single file without templates to the document endpoint
// and everything else to the batch endpoint.
func runUpload(ctx context.Context, client uploader, paths, templates []string, out io.Writer) error {
	files := make([]http.FormFile, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		files = append(files, http.FormFile{Field: "files", Filename: filepath.Base(path), Content: f})
	}

	if len(files) == 1 && len(templates) == 0 {
		resp, err := client.UploadFile(ctx, files[0].Filename, files[0].Content)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, resp.DocumentMD)
		return err
	}

	resp, err := client.UploadMultiple(ctx, templates, files)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Results)
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringArrayP("template", "t", nil, "template id to process the files against (repeatable)")
}
