package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/purchase-discount/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tierInput struct {
	Quantity     decimal.Decimal  `json:"quantity" binding:"decimal_gte=0"`
	NetPrice     *decimal.Decimal `json:"net_price" binding:"omitempty,decimal_gte=0"`
	DiscountRate *decimal.Decimal `json:"discount_rate" binding:"omitempty,decimal_gte=0,decimal_lte=1"`
	Step         decimal.Decimal  `json:"step" binding:"decimal_gt=0"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var in tierInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	return router
}

func post(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestDecimalValidation(t *testing.T) {
	router := bindRouter()

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"valid", `{"quantity": "5", "net_price": "9.5", "discount_rate": "0.1", "step": "1"}`, nil},
		{"omitted optional decimals", `{"quantity": "0", "step": "0.001"}`, nil},
		{"rate boundaries", `{"quantity": "0", "discount_rate": "1", "step": "1"}`, nil},
		{"negative quantity", `{"quantity": "-1", "step": "1"}`, []string{"quantity"}},
		{"rate above one", `{"quantity": "1", "discount_rate": "1.01", "step": "1"}`, []string{"discount_rate"}},
		{"negative net price", `{"quantity": "1", "net_price": "-0.01", "step": "1"}`, []string{"net_price"}},
		{"zero step", `{"quantity": "1", "step": "0"}`, []string{"step"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := post(router, tt.body)
			if tt.fields == nil {
				assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
				return
			}

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			var got []string
			for _, d := range resp.Error.Details {
				got = append(got, d.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	router := bindRouter()

	w, resp := post(router, `{"quantity": "abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string          `validate:"required"`
		Name     string          `validate:"max=3"`
		Code     string          `validate:"len=3"`
		Rate     decimal.Decimal `validate:"decimal_lte=1"`
	}

	v := validator.New()
	RegisterDecimalValidations(v)

	err := v.Struct(sample{Name: "toolong", Code: "EURO", Rate: decimal.NewFromInt(2)})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	messages := map[string]string{}
	for _, e := range verrs {
		messages[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be at most 3 characters", messages["Name"])
	assert.Equal(t, "Must be exactly 3 characters", messages["Code"])
	assert.Equal(t, "Must be less than or equal to 1", messages["Rate"])
}
