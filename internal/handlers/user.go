package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KC-426/aeonaxy/internal/auth"
	"github.com/KC-426/aeonaxy/internal/services"
)

const (
	maxMultipartMemory = 10 << 20
	maxImageBytes      = 5 << 20
	formFieldFile      = "file"
	formFieldPhone     = "phone_no"
	formFieldGender    = "gender"
)

// UserHandler provides account, profile and enrollment endpoints for users.
type UserHandler struct {
	users        *services.UserService
	enrollments  *services.EnrollmentService
	cookieTTL    time.Duration
	secureCookie bool
}

// UserOptions tunes the login cookie.
type UserOptions struct {
	CookieTTL    time.Duration
	SecureCookie bool
}

func NewUserHandler(users *services.UserService, enrollments *services.EnrollmentService, opts UserOptions) *UserHandler {
	if opts.CookieTTL <= 0 {
		opts.CookieTTL = time.Hour
	}
	return &UserHandler{
		users:        users,
		enrollments:  enrollments,
		cookieTTL:    opts.CookieTTL,
		secureCookie: opts.SecureCookie,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(
	r chi.Router,
	users *services.UserService,
	enrollments *services.EnrollmentService,
	opts UserOptions,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewUserHandler(users, enrollments, opts)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware, RequireRole(auth.RoleUser))
		r.Get("/me", handler.Me)
		r.Route("/{userID}", func(r chi.Router) {
			r.Use(requireSelf)
			r.Put("/profile", handler.UploadProfile)
			r.Patch("/profile", handler.PatchProfile)
			r.Get("/enrollments", handler.ListEnrollments)
			r.Post("/enrollments/{courseID}", handler.Enroll)
		})
	})
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Signup(r.Context(), services.SignupInput(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ResultResponse{Message: "user registered successfully", Result: user})
}

// Login returns a token and also sets it as an HttpOnly cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{Message: "user logged in successfully", Email: res.Email, Token: res.Token})
}

// Me returns the current authenticated user with their enrollments.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.users.Get(r.Context(), subject.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UploadProfile replaces the profile image from a multipart form and sets
// phone and gender when the form carries them. The image is required.
func (h *UserHandler) UploadProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMemory+maxImageBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	upload, err := parseImage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, services.ProfileInput{
		Phone:  formField(r, formFieldPhone),
		Gender: formField(r, formFieldGender),
		Image:  &upload,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Message: "profile updated successfully", User: user})
}

// formField returns nil when the parsed multipart form lacks key, so an
// omitted field leaves the stored value untouched.
func formField(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// PatchProfile updates phone and gender from a JSON body.
func (h *UserHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProfilePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Phone == nil && req.Gender == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, services.ProfileInput{
		Phone:  req.Phone,
		Gender: req.Gender,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Message: "profile updated successfully", User: user})
}

func (h *UserHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	courseID, err := parseIDParam(r, "courseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.enrollments.Enroll(r.Context(), userID, courseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ResultResponse{Message: "course enrolled successfully", Result: snapshot})
}

func (h *UserHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrolled, err := h.enrollments.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EnrollmentsResponse{Message: "enrolled courses fetched successfully", EnrolledCourses: enrolled})
}

func parseImage(r *http.Request) (services.Upload, error) {
	if r.MultipartForm == nil {
		return services.Upload{}, errors.New("missing form data")
	}
	files := r.MultipartForm.File[formFieldFile]
	if len(files) == 0 {
		return services.Upload{}, errors.New("file is required")
	}
	if len(files) > 1 {
		return services.Upload{}, errors.New("only one file is allowed")
	}

	header := files[0]
	file, err := header.Open()
	if err != nil {
		return services.Upload{}, errors.New("failed to read uploaded file")
	}
	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return services.Upload{}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return services.Upload{Name: header.Filename, ContentType: contentType, Data: data}, nil
}
