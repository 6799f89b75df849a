package guard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"typoteka/internal/domain/entity"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var namePattern = regexp.MustCompile(`^\p{L}+([ '-]\p{L}+)*$`)

// Field order used when flattening ozzo errors, so messages are stable.
var (
	articleFields = []string{"title", "announce", "fullText", "date", "categories", "image"}
	commentFields = []string{"text"}
	userFields    = []string{"firstName", "lastName", "email", "password", "repeatedPassword", "avatar"}
)

func lengthMessage(field string, min, max int) string {
	return fmt.Sprintf("%s must be between %d and %d characters", field, min, max)
}

// Text fields are measured without surrounding whitespace, so blank input
// fails Required.
func (r Rules) checkArticle(in entity.ArticleInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Announce = strings.TrimSpace(in.Announce)
	in.FullText = strings.TrimSpace(in.FullText)
	in.Date = strings.TrimSpace(in.Date)
	in.Image = strings.TrimSpace(in.Image)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(r.TitleMin, r.TitleMax).Error(lengthMessage("title", r.TitleMin, r.TitleMax)),
		),
		validation.Field(&in.Announce,
			validation.Required.Error("announce is required"),
			validation.RuneLength(r.AnnounceMin, r.AnnounceMax).Error(lengthMessage("announce", r.AnnounceMin, r.AnnounceMax)),
		),
		validation.Field(&in.FullText,
			validation.Required.Error("full text is required"),
			validation.RuneLength(r.FullTextMin, r.FullTextMax).Error(lengthMessage("full text", r.FullTextMin, r.FullTextMax)),
		),
		validation.Field(&in.Date,
			validation.Required.Error("publication date is required"),
			validation.By(dateRule),
		),
		validation.Field(&in.Categories,
			validation.Required.Error("at least one category must be selected"),
			validation.By(positiveIDsRule),
		),
		validation.Field(&in.Image,
			validation.By(r.imageRule),
		),
	)
}

func (r Rules) checkComment(in entity.CommentInput) error {
	in.Text = strings.TrimSpace(in.Text)
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text,
			validation.Required.Error("comment text is required"),
			validation.RuneLength(r.CommentMin, 0).Error(fmt.Sprintf("comment must be at least %d characters", r.CommentMin)),
		),
	)
}

func (r Rules) checkUser(in entity.UserInput) error {
	nameRules := func(label string) []validation.Rule {
		return []validation.Rule{
			validation.Required.Error(label + " is required"),
			validation.RuneLength(0, r.NameMax).Error(fmt.Sprintf("%s must be at most %d characters", label, r.NameMax)),
			validation.Match(namePattern).Error(label + " must contain only letters"),
		}
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, nameRules("first name")...),
		validation.Field(&in.LastName, nameRules("last name")...),
		validation.Field(&in.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email must be a valid address"),
		),
		validation.Field(&in.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(r.PasswordMin, 0).Error(fmt.Sprintf("password must be at least %d characters", r.PasswordMin)),
			validation.By(r.passwordBytesRule),
		),
		validation.Field(&in.RepeatedPassword,
			validation.Required.Error("repeated password is required"),
			validation.In(in.Password).Error("passwords do not match"),
		),
		validation.Field(&in.Avatar,
			validation.By(r.imageRule),
		),
	)
}

// passwordBytesRule caps the password in bytes, not characters: bcrypt
// rejects longer input.
func (r Rules) passwordBytesRule(value interface{}) error {
	s, _ := value.(string)
	if len(s) > r.PasswordMaxByte {
		return validation.NewError("validation_password_length",
			fmt.Sprintf("password must be at most %d bytes", r.PasswordMaxByte))
	}
	return nil
}

func dateRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := entity.ParseDate(s); err != nil {
		return validation.NewError("validation_date_format", "publication date must be YYYY-MM-DD or RFC 3339")
	}
	return nil
}

func positiveIDsRule(value interface{}) error {
	ids, _ := value.([]int64)
	for _, id := range ids {
		if id <= 0 {
			return validation.NewError("validation_category_id", "categories must be positive identifiers")
		}
	}
	return nil
}

func (r Rules) imageRule(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	lower := strings.ToLower(s)
	for _, ext := range r.ImageExtensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return nil
		}
	}
	return validation.NewError("validation_image_type",
		"image must be one of: "+strings.Join(r.ImageExtensions, ", "))
}

// flatten turns ozzo field errors into ValidationErrors in the given field
// order. Errors that are not field errors are returned as is.
func flatten(err error, order []string) (entity.ValidationErrors, error) {
	if err == nil {
		return nil, nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	out := make(entity.ValidationErrors, 0, len(fieldErrs))
	for _, field := range order {
		if fe, ok := fieldErrs[field]; ok && fe != nil {
			out = append(out, entity.ValidationError{Field: field, Message: fe.Error()})
		}
	}
	return out, nil
}
