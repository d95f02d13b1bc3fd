package app

import (
	"errors"

	"github.com/felixbrock/ideaspark/internal/domain"
)

type errCtx struct {
	Code  int
	Title string
	Msg   string
}

func get400(msg string) errCtx {
	return errCtx{
		Code:  400,
		Title: "Bad request",
		Msg:   msg,
	}
}

func get404() errCtx {
	return errCtx{
		Code:  404,
		Title: "Not found",
		Msg:   "Sorry, we couldn't find the idea you were looking for.",
	}
}

func get500() errCtx {
	return errCtx{
		Code:  500,
		Title: "Internal server error",
		Msg:   "Sorry, there was an internal server error.",
	}
}

func errCtxFor(err error) errCtx {
	if msg, ok := isValidation(err); ok {
		return get400(msg)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return get404()
	}

	return get500()
}
