// Package driveexport uploads finished reports to Google Drive. It does one
// thing: write a markdown file into a named Drive folder, creating the folder
// on first use.
package driveexport

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Exporter wraps the Drive files API for report upload.
type Exporter struct {
	files filesAPI
}

// filesAPI is the slice of drive.FilesService the exporter needs, kept as an
// interface so tests can stub the network.
type filesAPI interface {
	ListFolders(ctx context.Context, query string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, name string) (*drive.File, error)
	CreateFile(ctx context.Context, meta *drive.File, content string) (*drive.File, error)
}

// NewExporter builds an Exporter from a credentials JSON file path.
func NewExporter(ctx context.Context, credentialsFile string) (*Exporter, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("MISSING_CONFIGURATION: drive credentials file not set")
	}
	svc, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Exporter{files: &driveFiles{svc: svc}}, nil
}

// Export writes content as a markdown file named <ticker>_<reportType>.md in
// folderName. The folder is looked up first and only created when absent, so
// repeated exports share one folder.
func (e *Exporter) Export(ctx context.Context, folderName, ticker, reportType, content string) (string, error) {
	folderID, err := e.ensureFolder(ctx, folderName)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.md", strings.ToUpper(ticker), reportType)
	meta := &drive.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: "text/markdown",
	}
	created, err := e.files.CreateFile(ctx, meta, content)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	fmt.Printf("[EXPORT] Uploaded %s to folder %s\n", name, folderName)
	return created.Id, nil
}

func (e *Exporter) ensureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false",
		folderMimeType, strings.ReplaceAll(name, "'", `\'`))
	folders, err := e.files.ListFolders(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %s: %w", name, err)
	}
	if len(folders) > 0 {
		return folders[0].Id, nil
	}

	created, err := e.files.CreateFolder(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", name, err)
	}
	fmt.Printf("[EXPORT] Created drive folder %s\n", name)
	return created.Id, nil
}

// driveFiles adapts *drive.Service to filesAPI.
type driveFiles struct {
	svc *drive.Service
}

func (d *driveFiles) ListFolders(ctx context.Context, query string) ([]*drive.File, error) {
	list, err := d.svc.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return list.Files, nil
}

func (d *driveFiles) CreateFolder(ctx context.Context, name string) (*drive.File, error) {
	return d.svc.Files.Create(&drive.File{Name: name, MimeType: folderMimeType}).
		Fields("id").Context(ctx).Do()
}

func (d *driveFiles) CreateFile(ctx context.Context, meta *drive.File, content string) (*drive.File, error) {
	return d.svc.Files.Create(meta).
		Media(strings.NewReader(content)).
		Fields("id").Context(ctx).Do()
}
