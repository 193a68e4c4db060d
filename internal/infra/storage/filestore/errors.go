package filestore

import "errors"

var (
	// ErrReadDocument ошибка чтения или разбора JSON документа
	ErrReadDocument = errors.New("filestore: failed to read document")

	// ErrWriteDocument ошибка записи JSON документа
	ErrWriteDocument = errors.New("filestore: failed to write document")

	// ErrLock ошибка взятия файловой блокировки
	ErrLock = errors.New("filestore: failed to acquire lock")

	// ErrTransaction ошибка открытия хранилища или транзакции
	ErrTransaction = errors.New("filestore: transaction failed")
)
