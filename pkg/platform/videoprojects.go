package platform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
)

// FilePart is one binary attachment of a multipart submission.
type FilePart struct {
	Filename string
	Content  io.Reader
}

// CreateProjectInput carries the scalar fields and file attachments of a new
// project submission. Validation happens before this struct reaches the
// client (internal/projects); the backend revalidates regardless.
type CreateProjectInput struct {
	UserContext     string
	Voice           string
	ScriptStyle     string
	AnimationStyle  string
	CaptionPosition string
	MinWords        int
	MaxWords        int
	VideoFile       FilePart
	MusicFile       *FilePart
}

// ListProjects fetches video projects matching the optional filters.
func (c *Client) ListProjects(ctx context.Context, filters Filters) ([]VideoProject, error) {
	var projects []VideoProject
	if err := c.getJSON(ctx, listEndpoint("/video-projects", filters), "video-projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*VideoProject, error) {
	var project VideoProject
	if err := c.getJSON(ctx, "/video-projects/"+url.PathEscape(id), "video-projects", &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject submits a new project as multipart form data: every scalar
// field stringified individually, the required video file, and the optional
// music file.
func (c *Client) CreateProject(ctx context.Context, input CreateProjectInput) (*VideoProject, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"voice":            input.Voice,
		"script_style":     input.ScriptStyle,
		"animation_style":  input.AnimationStyle,
		"caption_position": input.CaptionPosition,
		"min_words":        strconv.Itoa(input.MinWords),
		"max_words":        strconv.Itoa(input.MaxWords),
	}
	if input.UserContext != "" {
		fields["user_context"] = input.UserContext
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write form field")
		}
	}

	if err := writeFilePart(writer, "video_file", input.VideoFile); err != nil {
		return nil, err
	}
	if input.MusicFile != nil {
		if err := writeFilePart(writer, "music_file", *input.MusicFile); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize form body")
	}

	c.log(ctx, "request", "video-projects.create", map[string]any{
		"voice":       input.Voice,
		"video_file":  input.VideoFile.Filename,
		"with_music":  input.MusicFile != nil,
		"word_bounds": fmt.Sprintf("%d-%d", input.MinWords, input.MaxWords),
	})

	var project VideoProject
	err := c.do(ctx, requestSpec{
		method:      http.MethodPost,
		endpoint:    "/video-projects",
		resource:    "video-projects",
		body:        body,
		contentType: writer.FormDataContentType(),
	}, &project)
	if err != nil {
		return nil, err
	}

	c.log(ctx, "response", "video-projects.create", map[string]any{
		"project_id": project.ID,
		"status":     project.Status.String(),
	})
	return &project, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, input UpdateProjectInput) (*VideoProject, error) {
	var project VideoProject
	if err := c.sendJSON(ctx, http.MethodPut, "/video-projects/"+url.PathEscape(id), "video-projects", input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "/video-projects/"+url.PathEscape(id), "video-projects")
}

// RetryProject requeues a failed project through the pipeline.
func (c *Client) RetryProject(ctx context.Context, id string) (*RetryResponse, error) {
	var resp RetryResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/video-projects/"+url.PathEscape(id)+"/retry", "video-projects", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListProjectsByUser fetches the projects owned by one user.
func (c *Client) ListProjectsByUser(ctx context.Context, userID string) ([]VideoProject, error) {
	var projects []VideoProject
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(userID)+"/video-projects", "video-projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func writeFilePart(writer *multipart.Writer, field string, part FilePart) error {
	if part.Content == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s content is required", field))
	}
	dest, err := writer.CreateFormFile(field, part.Filename)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create form file")
	}
	if _, err := io.Copy(dest, part.Content); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy file content")
	}
	return nil
}
