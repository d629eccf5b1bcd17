package projects

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/reelsmith/dashboard-go/pkg/errors"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// sniffLimit is how many leading bytes content detection reads before the
// rest of the stream is forwarded untouched.
const sniffLimit = 3072

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateWordBounds, CreateForm{})
	return v
}

// CreateForm is a raw project submission before validation. Field names in
// FieldErrors match the json tags here.
type CreateForm struct {
	UserContext     string `json:"user_context" validate:"max=2000"`
	Voice           string `json:"voice" validate:"required"`
	ScriptStyle     string `json:"script_style" validate:"required"`
	AnimationStyle  string `json:"animation_style" validate:"required"`
	CaptionPosition string `json:"caption_position" validate:"required"`
	MinWords        int    `json:"min_words" validate:"required,gte=1"`
	MaxWords        int    `json:"max_words" validate:"required,gte=1"`
	VideoFile       *platform.FilePart
	MusicFile       *platform.FilePart
}

func validateWordBounds(sl validator.StructLevel) {
	form := sl.Current().Interface().(CreateForm)
	if form.MinWords >= 1 && form.MaxWords >= 1 && form.MinWords >= form.MaxWords {
		sl.ReportError(form.MinWords, "MinWords", "min_words", "ltfield", "max_words")
	}
}

// FieldErrors maps a field name to its first validation failure.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// build validates the form and assembles the upload input. It returns a
// validation error before any network activity when the form is rejected.
func (form CreateForm) build() (platform.CreateProjectInput, error) {
	fieldErrs := FieldErrors{}

	if err := validate.Struct(form); err != nil {
		var invalid validator.ValidationErrors
		if !errors.As(err, &invalid) {
			return platform.CreateProjectInput{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate submission")
		}
		for _, fieldErr := range invalid {
			name := fieldName(fieldErr)
			if _, seen := fieldErrs[name]; !seen {
				fieldErrs[name] = fieldMessage(fieldErr)
			}
		}
	}

	input := platform.CreateProjectInput{
		UserContext:     form.UserContext,
		Voice:           form.Voice,
		ScriptStyle:     form.ScriptStyle,
		AnimationStyle:  form.AnimationStyle,
		CaptionPosition: form.CaptionPosition,
		MinWords:        form.MinWords,
		MaxWords:        form.MaxWords,
	}

	if form.VideoFile == nil || form.VideoFile.Content == nil {
		fieldErrs["video_file"] = "a video file is required"
	} else {
		part, err := sniffPart(*form.VideoFile, "video/")
		if err != nil {
			fieldErrs["video_file"] = err.Error()
		} else {
			input.VideoFile = part
		}
	}

	if form.MusicFile != nil && form.MusicFile.Content != nil {
		part, err := sniffPart(*form.MusicFile, "audio/")
		if err != nil {
			fieldErrs["music_file"] = err.Error()
		} else {
			input.MusicFile = &part
		}
	}

	if len(fieldErrs) > 0 {
		return platform.CreateProjectInput{}, pkgerrors.New(pkgerrors.CodeValidation, fieldErrs.Error()).WithDetails(fieldErrs)
	}
	return input, nil
}

// sniffPart detects the attachment's content type from its leading bytes and
// rejects anything outside the wanted MIME family. The consumed bytes are
// stitched back so the upload sees the full stream.
func sniffPart(part platform.FilePart, wantPrefix string) (platform.FilePart, error) {
	header := make([]byte, sniffLimit)
	n, err := io.ReadFull(part.Content, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return platform.FilePart{}, fmt.Errorf("read file header: %w", err)
	}
	header = header[:n]

	detected := mimetype.Detect(header)
	if !strings.HasPrefix(detected.String(), wantPrefix) {
		return platform.FilePart{}, fmt.Errorf("expected a %s* file, got %s", wantPrefix, detected.String())
	}

	return platform.FilePart{
		Filename: part.Filename,
		Content:  io.MultiReader(bytes.NewReader(header), part.Content),
	}, nil
}

func fieldName(fieldErr validator.FieldError) string {
	switch fieldErr.StructField() {
	case "UserContext":
		return "user_context"
	case "Voice":
		return "voice"
	case "ScriptStyle":
		return "script_style"
	case "AnimationStyle":
		return "animation_style"
	case "CaptionPosition":
		return "caption_position"
	case "MinWords":
		return "min_words"
	case "MaxWords":
		return "max_words"
	default:
		return strings.ToLower(fieldErr.StructField())
	}
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "gte":
		return "must be at least " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param() + " characters"
	case "ltfield":
		return "min_words must be less than max_words"
	default:
		return "invalid value"
	}
}
