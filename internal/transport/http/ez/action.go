package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-blog-api/internal/apperr"
	resp "go-blog-api/internal/transport/http/response"
)

// 非 CRUD 接口的一行注册：绑定、事务、错误映射统一在这里。

type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

type EZ struct {
	g   *gin.RouterGroup
	db  *gorm.DB
	log *zap.Logger
}

func New(g *gin.RouterGroup, db *gorm.DB, log *zap.Logger) EZ {
	return EZ{g: g, db: db, log: log}
}

// Action I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string
	Binder  Binder
	UseTx   bool // 是否包事务（gorm.Transaction）
	Status  int  // 成功状态码，默认 200
	Handler func(c *gin.Context, tx *gorm.DB, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	if a.Status == 0 {
		a.Status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			resp.Err(c, e.log, apperr.Validation(bindErr.Error()))
			return
		}

		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = e.db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e2 := run(tx)
				out = o
				return e2
			})
		} else {
			out, err = run(e.db.WithContext(c))
		}
		if err != nil {
			resp.Err(c, e.log, err)
			return
		}
		c.JSON(a.Status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
