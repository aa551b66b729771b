package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/authgate/internal/account"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Login      string `json:"login"` // identifier の別名として受け付ける
	Password   string `json:"password" binding:"required"`
}

// Signup は POST /api/accounts のハンドラーです。
// セッショントークンはバリデーション前にアカウント構築の一部として割り当てます。
// バリデーション違反はフィールド単位の一覧として 422 で返し、何も永続化しません。
func (m *Manager) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "入力内容を確認してください",
				"errors":  bindingViolations(vErrs),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "email, username, password を JSON で送ってください",
		})
		return
	}

	ctx := c.Request.Context()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.cfg.BcryptCost)
	if err != nil {
		// bcrypt は72バイトを超えるパスワードを受け付けない
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    "VALIDATION_FAILED",
			"message": "入力内容を確認してください",
			"errors": []account.ValidationError{
				{Field: "password", Message: "パスワードは72文字以内で入力してください"},
			},
		})
		return
	}

	token, err := m.gen.Generate(ctx)
	if err != nil {
		m.logger.Printf("failed to generate session token: %v", err)
		abortServerError(c)
		return
	}

	acct := account.New(req.Email, req.Username, string(hash), token)
	if violations := acct.Validate(); len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    "VALIDATION_FAILED",
			"message": "入力内容を確認してください",
			"errors":  violations,
		})
		return
	}

	if err := m.store.Create(ctx, acct); err != nil {
		switch {
		case errors.Is(err, account.ErrDuplicateEmail):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "入力内容を確認してください",
				"errors": []account.ValidationError{
					{Field: "email", Message: "このメールアドレスは既に使用されています"},
				},
			})
		case errors.Is(err, account.ErrDuplicateUsername):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "入力内容を確認してください",
				"errors": []account.ValidationError{
					{Field: "username", Message: "このユーザー名は既に使用されています"},
				},
			})
		default:
			m.logger.Printf("failed to create account: %v", err)
			abortServerError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, acct.Public())
}

// SessionShow は GET /api/session のハンドラーです。
// RequireAccount を通過してから呼ばれます。
func (m *Manager) SessionShow(c *gin.Context) {
	acct, ok := CurrentAccount(c)
	if !ok {
		abortServerError(c)
		return
	}
	c.JSON(http.StatusOK, acct.Public())
}

// SessionCreate は POST /api/session（ログイン）のハンドラーです。
// 識別子が未登録の場合とパスワードが違う場合は同じレスポンスを返します。
func (m *Manager) SessionCreate(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "identifier と password を JSON で送ってください",
		})
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Login
	}
	if identifier == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "identifier と password を JSON で送ってください",
		})
		return
	}

	ctx := c.Request.Context()

	acct, err := m.verifier.Verify(ctx, identifier, req.Password)
	if err != nil {
		m.logger.Printf("failed to verify credentials: %v", err)
		abortServerError(c)
		return
	}
	if acct == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "認証情報が正しくありません",
		})
		return
	}

	s := m.session(c)
	if _, err := s.Login(ctx, acct); err != nil {
		m.logger.Printf("failed to log in account: %v", err)
		abortServerError(c)
		return
	}

	// ログインでCSRFシードが張り替わるため、新しいトークンを付与し直す
	if err := m.csrf.Attach(c, s.signed); err != nil {
		m.logger.Printf("failed to attach csrf token: %v", err)
	}

	c.JSON(http.StatusCreated, acct.Public())
}

// SessionDestroy は DELETE /api/session（ログアウト）のハンドラーです。
// セッションがない状態でも安全に呼べます。
func (m *Manager) SessionDestroy(c *gin.Context) {
	s := m.session(c)
	if err := s.Logout(c.Request.Context()); err != nil {
		m.logger.Printf("failed to log out: %v", err)
		abortServerError(c)
		return
	}

	// ログアウトでCSRFシードが張り替わるため、新しいトークンを付与し直す
	if err := m.csrf.Attach(c, s.signed); err != nil {
		m.logger.Printf("failed to attach csrf token: %v", err)
	}

	c.Status(http.StatusNoContent)
}

// bindingViolations は validator のエラーをフィールド単位のメッセージに変換します。
func bindingViolations(vErrs validator.ValidationErrors) []account.ValidationError {
	violations := make([]account.ValidationError, 0, len(vErrs))
	for _, fe := range vErrs {
		var field string
		switch fe.Field() {
		case "Email":
			field = "email"
		case "Username":
			field = "username"
		case "Password":
			field = "password"
		default:
			field = fe.Field()
		}
		violations = append(violations, account.ValidationError{
			Field:   field,
			Message: field + " を入力してください",
		})
	}
	return violations
}
