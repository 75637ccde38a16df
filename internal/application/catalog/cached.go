package catalog

import (
	"context"

	"go.uber.org/zap"
)

// cached 先读缓存，未命中时查询并回填
// 缓存读写失败只记录日志，降级为直接查询
func cached[T any](
	ctx context.Context,
	logger *zap.Logger,
	name string,
	get func(context.Context) (T, bool, error),
	load func(context.Context) (T, error),
	set func(context.Context, T) error,
) (T, error) {
	v, ok, err := get(ctx)
	if err != nil {
		logger.Warn("读取缓存失败", zap.String("cache", name), zap.Error(err))
	}
	if ok {
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := set(ctx, v); err != nil {
		logger.Warn("写入缓存失败", zap.String("cache", name), zap.Error(err))
	}
	return v, nil
}
