// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	middlewares = map[string]gin.HandlerFunc{}
	mtx         sync.RWMutex
)

func init() {
	Register(RequestIDName, RequestID())
	Register(RecoveryName, Recovery())
	Register(LoggerName, Logger())
	Register(CORSName, CORS(nil))
}

// Register register a middleware.
func Register(name string, middleware gin.HandlerFunc) {
	mtx.Lock()
	defer mtx.Unlock()

	middlewares[name] = middleware
}

// Get returns the specific name middleware.
func Get(name string) gin.HandlerFunc {
	mtx.RLock()
	defer mtx.RUnlock()

	return middlewares[name]
}

// Names returns the sorted names of the registered middlewares.
func Names() []string {
	mtx.RLock()
	defer mtx.RUnlock()

	names := make([]string, 0, len(middlewares))
	for name := range middlewares {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
