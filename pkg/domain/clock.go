package domain

import "time"

// Clock fornece o instante atual; os testes injetam um relógio fixo.
type Clock func() time.Time
