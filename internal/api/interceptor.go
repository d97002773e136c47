package api

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// loggingInterceptor пишет по строке на вызов: метод, код, длительность.
// Ошибки клиента: Info, codes.Internal и прочие сбои: Error.
func loggingInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		started := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		entry := log.WithFields(logrus.Fields{
			"method":     info.FullMethod,
			"code":       code.String(),
			"latency_ms": time.Since(started).Milliseconds(),
		})
		switch code {
		case codes.OK:
			entry.Debug("rpc")
		case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
			entry.WithError(err).Error("rpc failed")
		default:
			entry.WithField("error", status.Convert(err).Message()).Info("rpc rejected")
		}
		return resp, err
	}
}

func recoveryInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					"method": info.FullMethod,
					"panic":  r,
					"stack":  string(debug.Stack()),
				}).Error("rpc panicked")
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
